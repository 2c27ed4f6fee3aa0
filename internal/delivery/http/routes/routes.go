package routes

import (
	"net/http"

	"job-scraping/internal/delivery/http/handler"
	"job-scraping/internal/delivery/http/middleware"
	"job-scraping/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	Health    *handler.HealthHandler
	Search    *handler.SearchHandler
	Alerts    *handler.AlertHandler
	SavedJobs *handler.SavedJobHandler
	WS        *ws.Handler
	Auth      *middleware.AuthMiddleware
	// Metrics is served on MetricsPath, "/metrics" by default, when set.
	Metrics     http.Handler
	MetricsPath string
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
	if r.WS != nil {
		app.Get("/ws/jobs", r.WS.HandleJobsWS)
	}
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.Metrics != nil {
		path := r.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(r.Metrics))
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api").Group("/v1")
	if r.Auth == nil {
		return
	}

	optional := r.Auth.Optional()
	required := r.Auth.Middleware()

	if r.Search != nil {
		r.Search.RegisterRoutes(v1, optional, required)
	}
	if r.Alerts != nil {
		r.Alerts.RegisterRoutes(v1, required)
	}
	if r.SavedJobs != nil {
		r.SavedJobs.RegisterRoutes(v1, required)
	}
}
