package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/services"
	"github.com/meinhoongagan/hospital-app/utils"
)

type DoctorHandler struct {
	doctors *repository.DoctorCatalog
	booking *services.BookingService
}

func NewDoctorHandler(doctors *repository.DoctorCatalog, booking *services.BookingService) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, booking: booking}
}

// GetDoctors godoc
// @Summary List doctors
// @Description Filter by a name or specialization term and an exact specialization
// @Tags doctors
// @Produce json
// @Param name query string false "Name or specialization contains"
// @Param specialization query string false "Specialization"
// @Success 200 {array} models.Doctor
// @Router /doctors [get]
func (h *DoctorHandler) GetDoctors(c *fiber.Ctx) error {
	return c.JSON(h.doctors.Search(c.Query("name"), c.Query("specialization")))
}

// GetSpecializations godoc
// @Summary List distinct specializations
// @Tags doctors
// @Produce json
// @Success 200 {array} string
// @Router /doctors/specializations [get]
func (h *DoctorHandler) GetSpecializations(c *fiber.Ctx) error {
	return c.JSON(h.doctors.Specializations())
}

// GetDoctor godoc
// @Summary Get a doctor by ID
// @Tags doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} models.Doctor
// @Failure 404 {object} utils.ErrorResponse
// @Router /doctors/{id} [get]
func (h *DoctorHandler) GetDoctor(c *fiber.Ctx) error {
	d, err := h.doctors.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

// GetSlots godoc
// @Summary Slots for one date
// @Description The doctor's template for the weekday of date, and which of those slots are still open
// @Tags doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {object} services.SlotView
// @Failure 400 {object} utils.ValidationErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /doctors/{id}/slots [get]
func (h *DoctorHandler) GetSlots(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ValidationErrorResponse{
			Message: "Validation failed",
			Fields:  map[string]string{"date": "Please select a date"},
		})
	}
	view, err := h.booking.Slots(c.UserContext(), c.Params("id"), date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}
