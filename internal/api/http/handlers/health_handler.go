package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a store connection that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	storeName   string
	store       Pinger
}

// NewHealthHandler returns a new handler instance. store may be nil for the
// memory driver.
func NewHealthHandler(serviceName, version, storeName string, store Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, storeName: storeName, store: store}
}

// Root handles GET /.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.SendString("Server running")
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking the store.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			depStatus[h.storeName] = err.Error()
			ready = false
		} else {
			depStatus[h.storeName] = "ok"
		}
	} else {
		depStatus[h.storeName] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
