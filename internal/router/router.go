package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrdocs/internal/handler"
	"hrdocs/internal/metrics"
	"hrdocs/internal/middleware"
	"hrdocs/internal/service"
)

// Options carries the cross-cutting pieces the router installs.
type Options struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
	opts Options,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	if opts.RateLimiter != nil {
		protected.Use(opts.RateLimiter.Middleware())
	}

	documents := protected.Group("/documents")
	documents.POST("/analyze", analysisH.Analyze)
	documents.POST("/:id/reanalyze", analysisH.Reanalyze)
	documents.GET("/:id/export", analysisH.Export)

	return r
}
