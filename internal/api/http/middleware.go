package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/dine-service/internal/observability"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// MiddlewareConfig bundles the global middleware settings.
type MiddlewareConfig struct {
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Timeout      time.Duration
	AllowOrigins string
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins}))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(observability.RouteLabel(c), c.Method(), domainErr.Code)
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError also maps fiber's own errors, such as unmatched routes, to
// their status.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.NewDomainError(apperrors.CodeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDomainError("TIMEOUT", "request timed out", fiber.StatusServiceUnavailable, nil)
	}
	return apperrors.ToDomainError(err)
}
