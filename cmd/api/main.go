package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caseflow/docs"
	"caseflow/internal/app"
	"caseflow/internal/config"
	handlers "caseflow/internal/http/handler"
	"caseflow/internal/http/middleware"
	"caseflow/internal/logging"
	"caseflow/internal/metrics"
	"caseflow/internal/otel"
	"caseflow/internal/service"
)

const (
	bodyLimit       = 20 * 1024 * 1024
	shutdownTimeout = 15 * time.Second
	limiterIdleTTL  = 10 * time.Minute
)

// @title Caseflow API
// @version 1.0
// @description Citizen complaint intake, routing and tracking.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, loc)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	// Storage, locking and notification backends as selected by configuration
	rt, err := app.Build(ctx, cfg, logger, app.Options{Migrate: true, Attachments: true, Notifications: true})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := rt.Close(sctx); err != nil {
			logger.Error("backend shutdown failed", slog.Any("error", err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics, err := metrics.NewWorkflow(reg)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}
	rt.Deps.Metrics = workflowMetrics

	services := handlers.Services{
		Intake:        service.NewIntakeService(rt.Deps),
		Routing:       service.NewRoutingService(rt.Deps),
		Tracking:      service.NewTrackingService(rt.Deps),
		Reports:       service.NewReportService(rt.Deps),
		Directory:     service.NewDirectoryService(rt.Deps),
		SearchLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, limiterIdleTTL).Handler(),
		Location:      rt.Location,
	}
	if rt.DB != nil {
		services.DB = rt.DB
	}

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	// Register global middleware
	fiberApp.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	fiberApp.Use(middleware.RequestID())
	// The acting officer, when the gateway forwards one
	fiberApp.Use(middleware.Actor())
	// JSON Logger middleware for structured request logs
	fiberApp.Use(middleware.Logger(logger))
	fiberApp.Use(httpMetrics.Handler())

	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(fiberApp, services)

	// Swagger UI with dynamic host and scheme
	fiberApp.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", slog.String("addr", addr), slog.String("store", cfg.StoreBackend))
		errCh <- fiberApp.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := fiberApp.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
