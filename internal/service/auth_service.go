package service

import (
	"time"

	"github.com/spec-kit/dine-service/internal/auth"
	"github.com/spec-kit/dine-service/internal/config"
	"github.com/spec-kit/dine-service/internal/domain"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// AuthService issues tokens for submitted identities.
type AuthService struct {
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{tokenMgr: auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)}
}

// IssueToken signs the identity as submitted. The user collection is not
// consulted: callers register themselves after obtaining a token.
func (s *AuthService) IssueToken(identity domain.Identity) (string, time.Time, error) {
	if identity.Email == "" {
		return "", time.Time{}, apperrors.NewValidationError("email required", nil)
	}
	return s.tokenMgr.GenerateToken(identity)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
