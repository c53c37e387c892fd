package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/config"
	"hrdocs/internal/domain"
	"hrdocs/internal/service"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret: "test-secret-key-for-unit-tests",
		Issuer: "hrdocs-test",
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims *service.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(tenantID uuid.UUID) *service.Claims {
	now := time.Now()
	return &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "hrdocs-test",
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"access"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
		TenantID: tenantID,
		UserID:   uuid.New(),
		Email:    "hr@example.com",
	}
}

func TestAuthService_ValidateToken_Success(t *testing.T) {
	cfg := testJWTConfig()
	svc := service.NewAuthService(cfg)
	tenantID := uuid.New()

	claims, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte(cfg.Secret), validClaims(tenantID)))

	require.NoError(t, err)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "hr@example.com", claims.Email)
}

func TestAuthService_ValidateToken_Rejected(t *testing.T) {
	cfg := testJWTConfig()
	tenantID := uuid.New()

	expired := validClaims(tenantID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	refresh := validClaims(tenantID)
	refresh.Audience = jwt.ClaimStrings{"refresh"}

	otherIssuer := validClaims(tenantID)
	otherIssuer.Issuer = "someone-else"

	noTenant := validClaims(uuid.Nil)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims(tenantID))},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, []byte(cfg.Secret), validClaims(tenantID))},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(cfg.Secret), expired)},
		{"refresh audience", signToken(t, jwt.SigningMethodHS256, []byte(cfg.Secret), refresh)},
		{"other issuer", signToken(t, jwt.SigningMethodHS256, []byte(cfg.Secret), otherIssuer)},
		{"missing tenant", signToken(t, jwt.SigningMethodHS256, []byte(cfg.Secret), noTenant)},
	}

	svc := service.NewAuthService(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestAuthService_ValidateToken_NoIssuerConfigured(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret-key-for-unit-tests"}
	svc := service.NewAuthService(cfg)
	claims := validClaims(uuid.New())
	claims.Issuer = "any-issuer"

	_, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte(cfg.Secret), claims))

	assert.NoError(t, err)
}
