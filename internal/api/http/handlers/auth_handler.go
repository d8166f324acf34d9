package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dine-service/internal/api/dto"
	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/service"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// AuthHandler issues tokens.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// IssueToken handles POST /jwt.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	token, exp, err := h.auth.IssueToken(domain.Identity{Email: req.Email, Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token, ExpiresAt: exp})
}
