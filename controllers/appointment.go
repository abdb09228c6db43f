package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/hospital-app/middleware"
	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/services"
	"github.com/meinhoongagan/hospital-app/utils"
)

type AppointmentHandler struct {
	booking   *services.BookingService
	status    *services.StatusController
	dashboard *services.Dashboard
	auth      *services.AuthService
}

func NewAppointmentHandler(
	booking *services.BookingService,
	status *services.StatusController,
	dashboard *services.Dashboard,
	auth *services.AuthService,
) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, status: status, dashboard: dashboard, auth: auth}
}

// CreateAppointment godoc
// @Summary Request an appointment
// @Description Books a pending appointment for the signed-in patient
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointment body services.BookingRequest true "Appointment"
// @Success 201 {object} models.Appointment
// @Failure 400 {object} utils.ValidationErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(c *fiber.Ctx) error {
	var req services.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	ctx := c.UserContext()
	patient, err := h.auth.Profile(ctx, middleware.CurrentActor(c).UserID)
	if err != nil {
		return respondError(c, err)
	}

	a, err := h.booking.Book(ctx, req, *patient)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// GetAppointments godoc
// @Summary List appointments
// @Description Admins see everything; patients only their own
// @Tags appointments
// @Produce json
// @Param status query string false "pending, confirmed, cancelled or completed"
// @Param date query string false "YYYY-MM-DD"
// @Param patientId query string false "Patient ID (admin only)"
// @Param doctorId query string false "Doctor ID"
// @Success 200 {array} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Router /appointments [get]
func (h *AppointmentHandler) GetAppointments(c *fiber.Ctx) error {
	f := repository.AppointmentFilter{
		PatientID: c.Query("patientId"),
		DoctorID:  c.Query("doctorId"),
		Status:    models.AppointmentStatus(c.Query("status")),
		Date:      c.Query("date"),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status filter",
			Error:   string(f.Status),
		})
	}

	list, err := h.dashboard.List(c.UserContext(), f, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetMyAppointments godoc
// @Summary The signed-in patient's appointments, split into upcoming and past
// @Tags appointments
// @Produce json
// @Success 200 {object} services.PatientAppointments
// @Router /appointments/mine [get]
func (h *AppointmentHandler) GetMyAppointments(c *fiber.Ctx) error {
	view, err := h.dashboard.PatientAppointments(c.UserContext(), middleware.CurrentActor(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetAppointment godoc
// @Summary Get an appointment by ID
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) GetAppointment(c *fiber.Ctx) error {
	a, err := h.dashboard.Get(c.UserContext(), c.Params("id"), middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(a)
}

// ApproveAppointment godoc
// @Summary Confirm a pending appointment
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments/{id}/approve [patch]
func (h *AppointmentHandler) ApproveAppointment(c *fiber.Ctx) error {
	return h.transition(c, h.status.Approve)
}

// RejectAppointment godoc
// @Summary Decline a pending appointment
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments/{id}/reject [patch]
func (h *AppointmentHandler) RejectAppointment(c *fiber.Ctx) error {
	return h.transition(c, h.status.Reject)
}

// CancelAppointment godoc
// @Summary Cancel a pending or confirmed appointment
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments/{id}/cancel [patch]
func (h *AppointmentHandler) CancelAppointment(c *fiber.Ctx) error {
	return h.transition(c, h.status.Cancel)
}

type transitionFunc func(ctx context.Context, id string, actor models.Actor) (*models.Appointment, error)

func (h *AppointmentHandler) transition(c *fiber.Ctx, apply transitionFunc) error {
	a, err := apply(c.UserContext(), c.Params("id"), middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(a)
}
