package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-scraping/internal/delivery/http/handler"
	"job-scraping/internal/delivery/http/middleware"
	"job-scraping/internal/delivery/http/routes"
	"job-scraping/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	container *Container
}

// New builds the HTTP surface over an initialised container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, container: c}
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger.Named("http")).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	checks := map[string]handler.Pinger{"database": c.DB}
	if c.Cache.Available() {
		checks["redis"] = c.Cache
	}

	reg := &routes.Registry{
		Health:      handler.NewHealthHandler(checks),
		Search:      handler.NewSearchHandler(c.Search),
		Alerts:      handler.NewAlertHandler(c.AlertUC),
		SavedJobs:   handler.NewSavedJobHandler(c.SavedJobUC),
		WS:          ws.NewHandler(c.Hub, c.Tokens, c.Logger.Named("ws")),
		Auth:        middleware.NewAuthMiddleware(c.Tokens),
		Metrics:     c.Metrics.Handler(),
		MetricsPath: c.Config.HTTP.MetricsPath,
	}
	reg.Register(app)
}

// Run serves HTTP, the websocket hub and, when enabled, the alert scheduler
// until ctx is cancelled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	cfg := a.container.Config
	log := a.container.Logger

	addr, err := ListenAddr(cfg.HTTP.Port)
	if err != nil {
		return err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.container.Hub.Run(hubCtx)

	if cfg.Scheduler.Enabled {
		if err := a.container.Scheduler.Start(ctx); err != nil {
			return err
		}
		defer a.container.Scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	log.Info("http server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := a.Fiber.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("http server stopped")
	return nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
