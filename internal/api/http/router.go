package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Versions       *handlers.VersionsHandler
	Analytics      *handlers.AnalyticsHandler
	Alerts         *handlers.AlertsHandler
	Reports        *handlers.ReportsHandler
	Widgets        *handlers.WidgetsHandler
	Directory      *handlers.DirectoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)
	authProtected.Post("/agents", auth.RequireAdmin(), cfg.Auth.Register)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRole())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("/bulk/status", cfg.Tickets.BulkUpdateStatus)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Get("/:id/timeline", cfg.Tickets.GetTimeline)
	tickets.Get("/:id/sla", cfg.Tickets.GetSLA)
	tickets.Post("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/escalate", cfg.Tickets.Escalate)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)

	tickets.Get("/:id/versions", cfg.Versions.History)
	tickets.Post("/:id/versions", cfg.Versions.Snapshot)
	tickets.Get("/:id/versions/compare", cfg.Versions.Compare)
	tickets.Get("/:id/versions/reverts", cfg.Versions.Reverts)
	tickets.Post("/:id/versions/revert", cfg.Versions.Revert)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle, auth.RequireRole())
	analytics.Get("/summary", cfg.Analytics.Summary)
	analytics.Get("/metrics", cfg.Analytics.RealtimeMetrics)

	alerts := app.Group("/alerts", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	alerts.Post("", cfg.Alerts.Create)
	alerts.Get("", cfg.Alerts.List)
	alerts.Put("/:id", cfg.Alerts.Update)
	alerts.Delete("/:id", cfg.Alerts.Delete)
	alerts.Get("/:id/history", cfg.Alerts.History)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	reports.Post("", cfg.Reports.Create)
	reports.Get("", cfg.Reports.List)
	reports.Put("/:id", cfg.Reports.Update)
	reports.Delete("/:id", cfg.Reports.Delete)
	reports.Get("/:id/history", cfg.Reports.History)
	reports.Post("/:id/run", cfg.Reports.RunNow)

	app.Get("/export/tickets", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Reports.Export)

	customers := app.Group("/customers", cfg.AuthMiddleware.Handle, auth.RequireRole())
	customers.Post("", cfg.Directory.CreateCustomer)
	customers.Get("", cfg.Directory.ListCustomers)
	customers.Get("/:id", cfg.Directory.GetCustomer)
	customers.Put("/:id", cfg.Directory.UpdateCustomer)

	agents := app.Group("/agents", cfg.AuthMiddleware.Handle, auth.RequireRole())
	agents.Get("", cfg.Directory.ListAgents)
	agents.Post("/:id/status", auth.RequireAdmin(), cfg.Directory.SetAgentStatus)

	widgets := app.Group("/widgets", cfg.AuthMiddleware.Handle, auth.RequireRole())
	widgets.Post("", cfg.Widgets.Create)
	widgets.Get("", cfg.Widgets.List)
	widgets.Put("/:id", cfg.Widgets.Update)
	widgets.Delete("/:id", cfg.Widgets.Delete)
}
