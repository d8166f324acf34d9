package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/dine-service/internal/api/http/handlers"
	"github.com/spec-kit/dine-service/internal/auth"
	"github.com/spec-kit/dine-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Menu           *handlers.MenuHandler
	Carts          *handlers.CartsHandler
	AuthMiddleware *auth.AuthMiddleware
	UserFinder     auth.UserFinder
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	authenticated := cfg.AuthMiddleware.Handle
	admin := auth.RequireAdmin(cfg.UserFinder)

	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/jwt", cfg.Auth.IssueToken)

	app.Get("/users", authenticated, admin, cfg.Users.List)
	app.Get("/users/admin/:email", authenticated, auth.RequireSelf("email", "Unauthorized access"), cfg.Users.AdminStatus)
	app.Post("/users", cfg.Users.Register)
	app.Delete("/users/:id", authenticated, admin, cfg.Users.Delete)
	app.Patch("/users/admin/:id", authenticated, admin, cfg.Users.Promote)

	app.Get("/menu", cfg.Menu.ListMenu)
	app.Post("/menu", authenticated, admin, cfg.Menu.CreateMenuItem)
	app.Delete("/menu/:id", authenticated, admin, cfg.Menu.DeleteMenuItem)

	app.Get("/review", cfg.Menu.ListReviews)

	app.Get("/carts", cfg.Carts.List)
	app.Post("/carts", cfg.Carts.Add)
	app.Delete("/carts/:id", cfg.Carts.Remove)
}
