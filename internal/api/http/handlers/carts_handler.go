package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dine-service/internal/api/dto"
	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/service"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// CartsHandler exposes the public cart endpoints.
type CartsHandler struct {
	carts *service.CartService
}

// NewCartsHandler constructs handler.
func NewCartsHandler(carts *service.CartService) *CartsHandler {
	return &CartsHandler{carts: carts}
}

// List handles GET /carts?email=.
func (h *CartsHandler) List(c *fiber.Ctx) error {
	items, err := h.carts.ListByEmail(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Add handles POST /carts.
func (h *CartsHandler) Add(c *fiber.Ctx) error {
	var req dto.CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	res, err := h.carts.Add(c.UserContext(), domain.CartItem{
		MenuID: req.MenuID,
		Email:  req.Email,
		Name:   req.Name,
		Image:  req.Image,
		Price:  req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Remove handles DELETE /carts/:id.
func (h *CartsHandler) Remove(c *fiber.Ctx) error {
	res, err := h.carts.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
