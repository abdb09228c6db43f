package models

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrSlotTaken               = errors.New("appointment time slot is already booked")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrInvalidAvailability     = errors.New("invalid availability template")
)
