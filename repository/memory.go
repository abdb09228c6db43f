package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/utils"
)

// MemoryAppointments keeps appointments in a slice guarded by a RWMutex.
type MemoryAppointments struct {
	mu    sync.RWMutex
	items []*models.Appointment
	index map[string]int
	now   func() time.Time
}

func NewMemoryAppointments() *MemoryAppointments {
	return &MemoryAppointments{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// Seed loads records that are not stored yet, keeping their status and
// timestamps.
func (r *MemoryAppointments) Seed(_ context.Context, appointments []models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range appointments {
		a := appointments[i]
		if a.ID == "" {
			a.ID = utils.GenerateID()
		}
		if _, known := r.index[a.ID]; known {
			continue
		}
		r.index[a.ID] = len(r.items)
		r.items = append(r.items, &a)
	}
	return nil
}

func (r *MemoryAppointments) Insert(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.DoctorID == a.DoctorID && existing.Date == a.Date && existing.Time == a.Time && existing.Holds() {
			return fmt.Errorf("%w: doctor %s on %s at %s", models.ErrSlotTaken, a.DoctorID, a.Date, a.Time)
		}
	}

	if a.ID == "" {
		a.ID = utils.GenerateID()
	}
	if _, dup := r.index[a.ID]; dup {
		a.ID = utils.GenerateID()
	}
	now := r.now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	a.Status = models.StatusPending

	stored := *a
	r.index[stored.ID] = len(r.items)
	r.items = append(r.items, &stored)
	return nil
}

func (r *MemoryAppointments) SetStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return models.ErrAppointmentNotFound
	}
	r.items[i].Status = status
	r.items[i].UpdatedAt = r.now()
	return nil
}

func (r *MemoryAppointments) Get(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, models.ErrAppointmentNotFound
	}
	a := *r.items[i]
	return &a, nil
}

func (r *MemoryAppointments) Query(_ context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, a := range r.items {
		if f.matches(a) {
			out = append(out, *a)
		}
	}
	return out, nil
}
