package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dormhub/facility-service/internal/api/http/handlers"
	"github.com/dormhub/facility-service/internal/auth"
	"github.com/dormhub/facility-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Residents      *handlers.ResidentsHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/residents/register", cfg.Residents.Register)
	authGroup.Post("/residents/login", cfg.Residents.Login)

	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protectedAuth.Post("/password/change", cfg.Staff.ChangePassword)

	app.Get("/categories", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Categories.List)

	// Resident-facing ticket lifecycle.
	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireResident())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/rating", cfg.Tickets.SubmitRating)

	// Staff queue: workers and admins share the read and close surface.
	staffTickets := app.Group("/staff/tickets", cfg.AuthMiddleware.Handle,
		auth.RequireStaffRole(domain.StaffRoleWorker, domain.StaffRoleAdmin))
	staffTickets.Get("", cfg.StaffTickets.ListTickets)
	staffTickets.Get("/:id", cfg.StaffTickets.GetTicket)
	staffTickets.Post("/:id/claim", cfg.StaffTickets.ClaimTicket)
	staffTickets.Post("/:id/resolve", cfg.StaffTickets.ResolveTicket)
	staffTickets.Post("/:id/reject", cfg.StaffTickets.RejectTicket)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Post("/tickets/:id/assign", cfg.StaffTickets.AssignTicket)
	admin.Post("/staff", cfg.Staff.CreateStaff)
	admin.Get("/staff", cfg.Staff.ListStaff)
	admin.Put("/staff/:id", cfg.Staff.UpdateStaff)
	admin.Post("/categories", cfg.Categories.Create)
	admin.Put("/categories/:id", cfg.Categories.Update)
}
