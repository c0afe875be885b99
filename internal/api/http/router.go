package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/fixithub/complaint-service/internal/api/http/handlers"
	"github.com/fixithub/complaint-service/internal/auth"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/observability"
)

// PhotosPath is where the in-memory photo store serves files.
const PhotosPath = "/api/v1/photos"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Residency       *handlers.ResidencyHandler
	Complaints      *handlers.ComplaintsHandler
	AdminComplaints *handlers.AdminComplaintsHandler
	Dashboard       *handlers.DashboardHandler
	Photos          *handlers.PhotosHandler
	AuthMiddleware  *auth.AuthMiddleware
	Metrics         *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api/v1")
	api.Get("/residencies", cfg.Residency.List)
	api.Get("/photos/:key", cfg.Photos.Get)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	api.Get("/session", cfg.AuthMiddleware.Optional, cfg.Auth.Session)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/residency", auth.RequireAnyRole(), cfg.Residency.Info)

	residents := auth.RequireRole(domain.RoleUser)
	protected.Get("/dashboard/user", residents, cfg.Dashboard.User)
	protected.Get("/complaints", residents, cfg.Complaints.ListMine)
	protected.Post("/complaints", residents, cfg.Complaints.Create)

	admins := auth.RequireRole(domain.RoleAdmin)
	protected.Get("/dashboard/admin", admins, cfg.Dashboard.Admin)
	adminGroup := protected.Group("/admin", admins)
	adminGroup.Get("/complaints", cfg.AdminComplaints.List)
	adminGroup.Patch("/complaints/:id/status", cfg.AdminComplaints.UpdateStatus)
	adminGroup.Delete("/complaints/:id", cfg.AdminComplaints.Delete)
	adminGroup.Get("/users", cfg.Residency.Members)
}
