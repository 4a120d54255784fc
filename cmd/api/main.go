package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-union/engage-auth/internal/api/http"
	"github.com/campus-union/engage-auth/internal/api/http/handlers"
	"github.com/campus-union/engage-auth/internal/auth"
	"github.com/campus-union/engage-auth/internal/config"
	"github.com/campus-union/engage-auth/internal/directus"
	"github.com/campus-union/engage-auth/internal/observability"
	"github.com/campus-union/engage-auth/internal/persistence"
	"github.com/campus-union/engage-auth/internal/service"
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

	metrics := observability.NewMetrics()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	backend := directus.NewClient(cfg.Directus, logger, metrics)
	throttle := auth.NewLoginThrottle(redis, cfg.Throttle, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Backend:  backend,
		Throttle: throttle,
		Metrics:  metrics,
	})
	profileService := service.NewProfileService(backend)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backend, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(profileService),
		Admin:          handlers.NewAdminHandler(profileService),
		AuthMiddleware: authMiddleware,
		AdminGuard:     auth.RequireAdmin(backend),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
