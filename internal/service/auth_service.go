package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthService authenticates the single configured staff account and issues
// session tokens for the protected routes.
type AuthService struct {
	staffEmail        string
	staffPasswordHash string
	tokenMgr          *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		staffEmail:        strings.ToLower(strings.TrimSpace(cfg.StaffEmail)),
		staffPasswordHash: cfg.StaffPasswordHash,
		tokenMgr:          auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// LoginStaff verifies credentials against the configured account.
func (s *AuthService) LoginStaff(_ context.Context, email, password string) (string, time.Time, error) {
	if s.staffEmail == "" || s.staffPasswordHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("staff login not configured")
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.staffEmail {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(s.staffPasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokenMgr.GenerateToken(s.staffEmail)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
