package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/services"
	"github.com/meinhoongagan/hospital-app/utils"
)

// respondError maps service errors onto status codes and the error envelope.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ValidationErrorResponse{
			Message: "Validation failed",
			Fields:  verr.Fields,
		})
	}

	switch {
	case errors.Is(err, models.ErrAppointmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{Message: "Appointment not found"})
	case errors.Is(err, models.ErrDoctorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{Message: "Doctor not found"})
	case errors.Is(err, models.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{Message: "User not found"})

	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{Message: "You don't have permission to perform this action"})

	case errors.Is(err, models.ErrInvalidStatusTransition):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{Message: "Invalid status change", Error: err.Error()})
	case errors.Is(err, models.ErrSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{Message: "Time slot not available"})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{Message: "Registration failed. Email may already exist."})

	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{Message: "Invalid credentials"})

	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{Message: "Internal server error"})
	}
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
		Message: "Failed to parse request body",
		Error:   err.Error(),
	})
}
