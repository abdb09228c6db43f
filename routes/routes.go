package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/meinhoongagan/hospital-app/controllers"
	"github.com/meinhoongagan/hospital-app/metrics"
	"github.com/meinhoongagan/hospital-app/middleware"
)

type Handlers struct {
	Auth         *controllers.AuthHandler
	Doctors      *controllers.DoctorHandler
	Appointments *controllers.AppointmentHandler
	Dashboard    *controllers.DashboardHandler
}

// Setup mounts every route group on app.
func Setup(app *fiber.App, h Handlers, jwtSecret string, collector *metrics.Collector) {
	protected := middleware.Protected(jwtSecret)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("MedCare Hospital API is running")
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	SetupAuthRoutes(app, h.Auth, protected)
	SetupDoctorRoutes(app, h.Doctors)
	SetupAppointmentRoutes(app, h.Appointments, protected)
	SetupAdminRoutes(app, h.Dashboard, protected)
}
