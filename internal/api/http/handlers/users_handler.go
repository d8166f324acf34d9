package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dine-service/internal/api/dto"
	"github.com/spec-kit/dine-service/internal/auth"
	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/service"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// UsersHandler exposes user registration and administration.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// AdminStatus handles GET /users/admin/:email. The route guard has already
// checked that the caller asks about their own email.
func (h *UsersHandler) AdminStatus(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return apperrors.NewValidationError("invalid email", nil)
	}
	admin, err := h.users.IsAdmin(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminStatusResponse{Admin: admin})
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res, existed, err := h.users.Register(c.UserContext(), domain.User{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
	if err != nil {
		return err
	}
	if existed {
		return c.JSON(dto.ExistingUserResponse{Message: "User already exists", InsertedID: nil})
	}
	return c.JSON(res)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	res, err := h.users.Delete(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Promote handles PATCH /users/admin/:id.
func (h *UsersHandler) Promote(c *fiber.Ctx) error {
	res, err := h.users.Promote(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func actor(c *fiber.Ctx) string {
	if claims, ok := auth.ClaimsFromContext(c); ok {
		return claims.Email
	}
	return ""
}
