package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AdminUser:       "admin",
		AdminPassword:   "s3cret",
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 30,
		BcryptCost:      bcrypt.MinCost,
	}
}

func TestAuthService_LoginIssuesAdminToken(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), zap.NewNop())
	require.True(t, svc.Enabled())

	token, expires, err := svc.Login("admin", "s3cret")

	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expires, 5*time.Second)

	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestAuthService_RejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), zap.NewNop())

	cases := []struct {
		name     string
		user     string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "root", "s3cret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(tc.user, tc.password)

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
			assert.Equal(t, "invalid credentials", domainErr.Message)
		})
	}
}

func TestAuthService_DisabledWithoutSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = ""
	svc := NewAuthService(cfg, zap.NewNop())

	assert.False(t, svc.Enabled())

	_, _, err := svc.Login("admin", "s3cret")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "AUTH_DISABLED", domainErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, domainErr.HTTPStatus)
}

func TestAuthService_DisabledWithoutPassword(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AdminPassword = ""
	svc := NewAuthService(cfg, zap.NewNop())

	assert.False(t, svc.Enabled())
}

func TestAuthService_AcceptsPreHashedPassword(t *testing.T) {
	hashed, err := auth.HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testAuthConfig()
	cfg.AdminPassword = hashed
	svc := NewAuthService(cfg, zap.NewNop())
	require.True(t, svc.Enabled())

	token, _, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login("admin", hashed)
	assert.Error(t, err)
}
