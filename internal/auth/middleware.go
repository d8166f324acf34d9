package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

const claimsKey = "auth_claims"

// Rejection messages returned by the authentication guard.
const (
	MsgMissingHeader = "Unauthorized: No Authorization header provided"
	MsgMissingToken  = "Unauthorized: No token provided"
	MsgInvalidToken  = "Unauthorized: Invalid token"
)

// AuthMiddleware validates bearer tokens and attaches their claims.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate resolves an Authorization header value to verified claims.
// The token is the second whitespace-separated segment; the scheme word is
// not inspected.
func (m *AuthMiddleware) Authenticate(authHeader string) (*Claims, error) {
	if authHeader == "" {
		return nil, apperrors.NewUnauthorized(MsgMissingHeader)
	}

	parts := strings.Fields(authHeader)
	if len(parts) < 2 {
		return nil, apperrors.NewUnauthorized(MsgMissingToken)
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized(MsgInvalidToken)
	}
	return claims, nil
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	claims, err := m.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the claims attached by Handle.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
