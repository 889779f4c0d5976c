package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Triage         *handlers.TriageHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	Engineers      *handlers.EngineersHandler
	Runs           *handlers.RunsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Read endpoints are anonymous; only the
// pipeline mutations sit behind the admin guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/healthz/live", cfg.Health.Live)
	app.Get("/healthz/ready", cfg.Health.Ready)

	registerDashboardPage(app)

	api := app.Group("/api/v1")
	api.Post("/auth/login", cfg.Auth.Login)

	triage := api.Group("/triage", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	triage.Post("/run", cfg.Triage.Run)
	triage.Post("/reassign", cfg.Triage.Reassign)

	api.Get("/tickets", cfg.Tickets.List)
	api.Get("/dashboard/summary", cfg.Dashboard.Summary)
	api.Get("/dashboard/diagnostics", cfg.Dashboard.Diagnostics)
	api.Get("/engineers", cfg.Engineers.List)
	api.Get("/runs", cfg.Runs.List)
	api.Get("/runs/:id/tickets", cfg.Runs.Tickets)
	api.Get("/export/tickets.csv", cfg.Tickets.ExportCSV)
}
