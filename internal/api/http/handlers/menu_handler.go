package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dine-service/internal/api/dto"
	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/service"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// MenuHandler serves the menu and reviews.
type MenuHandler struct {
	catalog *service.CatalogService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(catalog *service.CatalogService) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// ListMenu handles GET /menu.
func (h *MenuHandler) ListMenu(c *fiber.Ctx) error {
	items, err := h.catalog.ListMenu(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// CreateMenuItem handles POST /menu.
func (h *MenuHandler) CreateMenuItem(c *fiber.Ctx) error {
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	res, err := h.catalog.CreateMenuItem(c.UserContext(), actor(c), domain.MenuItem{
		Name:     req.Name,
		Recipe:   req.Recipe,
		Image:    req.Image,
		Category: req.Category,
		Price:    req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// DeleteMenuItem handles DELETE /menu/:id.
func (h *MenuHandler) DeleteMenuItem(c *fiber.Ctx) error {
	res, err := h.catalog.DeleteMenuItem(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ListReviews handles GET /review.
func (h *MenuHandler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.catalog.ListReviews(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}
