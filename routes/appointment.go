package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/hospital-app/controllers"
	"github.com/meinhoongagan/hospital-app/middleware"
	"github.com/meinhoongagan/hospital-app/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, h *controllers.AppointmentHandler, protected fiber.Handler) {
	patient := middleware.RequireRole(models.RolePatient)
	admin := middleware.RequireRole(models.RoleAdmin)

	appointment := app.Group("/appointments", protected)
	appointment.Post("/", patient, h.CreateAppointment)
	appointment.Get("/", h.GetAppointments)
	appointment.Get("/mine", patient, h.GetMyAppointments)
	appointment.Get("/:id", h.GetAppointment)
	appointment.Patch("/:id/approve", admin, h.ApproveAppointment)
	appointment.Patch("/:id/reject", admin, h.RejectAppointment)
	appointment.Patch("/:id/cancel", h.CancelAppointment)
}

// SetupAdminRoutes configures the admin dashboard routes
func SetupAdminRoutes(app *fiber.App, h *controllers.DashboardHandler, protected fiber.Handler) {
	admin := app.Group("/admin", protected, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/stats", h.GetAdminStats)
}
