package service

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// AuthService authenticates the configured admin operator and issues tokens.
// There is no user store; the only account is the admin from config, and an
// empty jwt_secret or admin_password leaves login disabled.
type AuthService struct {
	adminUser string
	adminHash string
	tokens    *auth.TokenManager
	logger    *zap.Logger
	enabled   bool
}

// NewAuthService builds the service. A plaintext admin_password is hashed
// once here so the login path always compares against a bcrypt hash.
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	s := &AuthService{
		adminUser: cfg.AdminUser,
		tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		logger:    logger,
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" || cfg.AdminPassword == "" {
		logger.Warn("admin authentication disabled, set auth.jwt_secret and auth.admin_password to enable")
		return s
	}

	hash := cfg.AdminPassword
	if !auth.IsHash(hash) {
		hashed, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			logger.Error("admin password hash failed, admin authentication disabled", zap.Error(err))
			return s
		}
		hash = hashed
	}

	s.adminHash = hash
	s.enabled = true
	return s
}

// Enabled reports whether admin login is configured.
func (s *AuthService) Enabled() bool {
	return s.enabled
}

// Login checks the admin credentials and returns a signed token with its
// expiry. Unknown usernames and wrong passwords get the same answer.
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	if !s.enabled {
		return "", time.Time{}, apperrors.NewDomainError(
			"AUTH_DISABLED", "admin authentication is not configured", http.StatusServiceUnavailable, nil)
	}
	if username != s.adminUser {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(s.adminHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Generate(username, domain.RoleAdmin)
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}

	s.logger.Info("admin login", zap.String("username", username))
	return token, expiresAt, nil
}

// TokenManager exposes the manager for the bearer middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
