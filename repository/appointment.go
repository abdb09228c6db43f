package repository

import (
	"context"

	"github.com/meinhoongagan/hospital-app/models"
)

// AppointmentFilter selects appointments; zero-valued fields match everything
// and set fields are ANDed.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Status    models.AppointmentStatus
	// Date matches one calendar day, YYYY-MM-DD.
	Date string
	// Before matches appointments dated strictly earlier, YYYY-MM-DD.
	Before string
}

func (f AppointmentFilter) matches(a *models.Appointment) bool {
	if f.PatientID != "" && a.PatientID != f.PatientID {
		return false
	}
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	// YYYY-MM-DD labels order lexically
	if f.Before != "" && a.Date >= f.Before {
		return false
	}
	return true
}

// AppointmentRepository owns every appointment for the process lifetime.
// Records are never deleted.
type AppointmentRepository interface {
	// Insert stores a in pending status, assigning an ID when empty. It
	// returns models.ErrSlotTaken when another non-cancelled appointment
	// holds the same doctor, date and time.
	Insert(ctx context.Context, a *models.Appointment) error
	// SetStatus replaces the status of one record.
	SetStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	Get(ctx context.Context, id string) (*models.Appointment, error)
	// Query returns copies in insertion order.
	Query(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
}
