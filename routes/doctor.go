package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/hospital-app/controllers"
)

// SetupDoctorRoutes configures the public doctor catalogue routes
func SetupDoctorRoutes(app *fiber.App, h *controllers.DoctorHandler) {
	doctors := app.Group("/doctors")
	doctors.Get("/", h.GetDoctors)
	// registered before /:id so it is not taken for an ID
	doctors.Get("/specializations", h.GetSpecializations)
	doctors.Get("/:id", h.GetDoctor)
	doctors.Get("/:id/slots", h.GetSlots)
}
