package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/utils"
)

// GormAppointments persists appointments in Postgres. The partial unique
// index created by db.Migrate backs the slot check inside Insert.
type GormAppointments struct {
	db *gorm.DB
}

func NewGormAppointments(db *gorm.DB) *GormAppointments {
	return &GormAppointments{db: db}
}

func (r *GormAppointments) Insert(ctx context.Context, a *models.Appointment) error {
	if a.ID == "" {
		a.ID = utils.GenerateID()
	}
	a.Status = models.StatusPending

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Reject a slot already held. When two bookings race for a free
		// slot there is no row to lock; the live-slot unique index lets one
		// insert through and the other fails with a duplicate key.
		var held []models.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
				a.DoctorID, a.Date, a.Time, models.StatusCancelled).
			Find(&held).Error; err != nil {
			return err
		}
		if len(held) > 0 {
			return models.ErrSlotTaken
		}
		return tx.Create(a).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrSlotTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: doctor %s on %s at %s", models.ErrSlotTaken, a.DoctorID, a.Date, a.Time)
	default:
		return fmt.Errorf("inserting appointment: %w", err)
	}
}

func (r *GormAppointments) SetStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return models.ErrSlotTaken
		}
		return fmt.Errorf("updating appointment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrAppointmentNotFound
	}
	return nil
}

func (r *GormAppointments) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var a models.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment %s: %w", id, err)
	}
	return &a, nil
}

func (r *GormAppointments) Query(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.Before != "" {
		q = q.Where("date < ?", f.Before)
	}

	out := make([]models.Appointment, 0)
	if err := q.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	return out, nil
}

// Seed inserts records that are not stored yet, keeping their status.
func (r *GormAppointments) Seed(ctx context.Context, appointments []models.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&appointments).Error
}
