package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/dine-service/internal/api/http"
	"github.com/spec-kit/dine-service/internal/api/http/handlers"
	"github.com/spec-kit/dine-service/internal/auth"
	"github.com/spec-kit/dine-service/internal/config"
	"github.com/spec-kit/dine-service/internal/events"
	"github.com/spec-kit/dine-service/internal/observability"
	"github.com/spec-kit/dine-service/internal/persistence"
	"github.com/spec-kit/dine-service/internal/repository"
	"github.com/spec-kit/dine-service/internal/service"
	"github.com/spec-kit/dine-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collections, store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	userService := service.NewUserService(collections.Users, dispatcher, logger)
	catalogService := service.NewCatalogService(collections.Menu, collections.Reviews, dispatcher, logger)
	cartService := service.NewCartService(collections.Carts)
	authService := service.NewAuthService(cfg.Auth)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics("dine")

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Driver, store),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Menu:           handlers.NewMenuHandler(catalogService),
		Carts:          handlers.NewCartsHandler(cartService),
		AuthMiddleware: authMiddleware,
		UserFinder:     userService,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// openStore connects the configured backend. The returned Pinger is nil for
// the memory driver.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Collections, handlers.Pinger, func()) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		m, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("failed to connect mongo", zap.Error(err))
		}
		return repository.NewMongoCollections(m.Database), m, func() { m.Close(context.Background()) }

	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		return repository.NewPostgresCollections(pg.PoolHandle()), pg, pg.Close

	case config.DriverRedis:
		r, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		return repository.NewRedisCollections(r.Client, cfg.Redis.KeyPrefix), r, r.Close

	default:
		logger.Warn("using in-memory store; data is lost on restart")
		return repository.NewMemoryCollections(), nil, func() {}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
