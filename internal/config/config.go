package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Analysis  AnalysisConfig
	RateLimit RateLimitConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AnalysisConfig bounds the text kept from each analysis.
type AnalysisConfig struct {
	// PreviewChars is the length of the text preview returned to callers.
	PreviewChars int `mapstructure:"preview_chars"`
	// StoredTextChars is the length of the text persisted with the document.
	StoredTextChars int `mapstructure:"stored_text_chars"`
}

// RateLimitConfig configures the token bucket guarding analysis routes.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify bearer tokens issued by the
// identity provider.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (s *S3Config) MaxFileSizeBytes() int64 {
	return s.MaxFileSizeMB << 20
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the HRDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HRDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "hrdocs")
	v.SetDefault("db.password", "hrdocs_secret")
	v.SetDefault("db.name", "hrdocs_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "hrdocs")

	// S3 defaults
	v.SetDefault("s3.region", "me-south-1")
	v.SetDefault("s3.bucket", "hrdocs-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Analysis defaults
	v.SetDefault("analysis.preview_chars", 1000)
	v.SetDefault("analysis.stored_text_chars", 5000)

	// Rate limit defaults
	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "HRDOCS_SERVER_PORT",
		"server.read_timeout":        "HRDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "HRDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":         "HRDOCS_SERVER_ENVIRONMENT",
		"db.host":                    "HRDOCS_DB_HOST",
		"db.port":                    "HRDOCS_DB_PORT",
		"db.user":                    "HRDOCS_DB_USER",
		"db.password":                "HRDOCS_DB_PASSWORD",
		"db.name":                    "HRDOCS_DB_NAME",
		"db.sslmode":                 "HRDOCS_DB_SSLMODE",
		"db.max_open":                "HRDOCS_DB_MAX_OPEN",
		"db.max_idle":                "HRDOCS_DB_MAX_IDLE",
		"jwt.secret":                 "HRDOCS_JWT_SECRET",
		"jwt.issuer":                 "HRDOCS_JWT_ISSUER",
		"s3.region":                  "HRDOCS_S3_REGION",
		"s3.bucket":                  "HRDOCS_S3_BUCKET",
		"s3.endpoint":                "HRDOCS_S3_ENDPOINT",
		"s3.access_key":              "HRDOCS_S3_ACCESS_KEY",
		"s3.secret_key":              "HRDOCS_S3_SECRET_KEY",
		"s3.max_file_size_mb":        "HRDOCS_S3_MAX_FILE_SIZE_MB",
		"log.level":                  "HRDOCS_LOG_LEVEL",
		"log.format":                 "HRDOCS_LOG_FORMAT",
		"cors.allowed_origins":       "HRDOCS_CORS_ALLOWED_ORIGINS",
		"analysis.preview_chars":     "HRDOCS_ANALYSIS_PREVIEW_CHARS",
		"analysis.stored_text_chars": "HRDOCS_ANALYSIS_STORED_TEXT_CHARS",
		"rate_limit.rps":             "HRDOCS_RATE_LIMIT_RPS",
		"rate_limit.burst":           "HRDOCS_RATE_LIMIT_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if HRDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HRDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Analysis = AnalysisConfig{
		PreviewChars:    v.GetInt("analysis.preview_chars"),
		StoredTextChars: v.GetInt("analysis.stored_text_chars"),
	}
	if cfg.Analysis.PreviewChars <= 0 || cfg.Analysis.StoredTextChars <= 0 {
		return nil, fmt.Errorf("analysis text limits must be positive, got preview=%d stored=%d",
			cfg.Analysis.PreviewChars, cfg.Analysis.StoredTextChars)
	}

	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("rate_limit.rps"),
		Burst: v.GetInt("rate_limit.burst"),
	}

	return cfg, nil
}
