package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/meinhoongagan/hospital-app/metrics"
	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
)

// StatusController applies guarded status transitions. The read-check-write
// sequence runs under one lock so two concurrent decisions on the same
// appointment cannot both pass the guard.
type StatusController struct {
	mu           sync.Mutex
	appointments repository.AppointmentRepository
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewStatusController(appointments repository.AppointmentRepository, collector *metrics.Collector, log *zap.Logger) *StatusController {
	return &StatusController{appointments: appointments, metrics: collector, log: log}
}

// Approve confirms a pending appointment. Admin only.
func (c *StatusController) Approve(ctx context.Context, id string, actor models.Actor) (*models.Appointment, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return c.transition(ctx, id, actor, models.StatusConfirmed)
}

// Reject cancels a pending appointment. Admin only.
func (c *StatusController) Reject(ctx context.Context, id string, actor models.Actor) (*models.Appointment, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := c.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: only pending appointments can be rejected, got %s", models.ErrInvalidStatusTransition, a.Status)
	}
	return c.apply(ctx, a, actor, models.StatusCancelled)
}

// Cancel withdraws a pending or confirmed appointment. Patients may cancel
// only their own.
func (c *StatusController) Cancel(ctx context.Context, id string, actor models.Actor) (*models.Appointment, error) {
	if !actor.Role.IsValid() {
		return nil, ErrForbidden
	}
	return c.transition(ctx, id, actor, models.StatusCancelled)
}

// Complete marks a confirmed appointment as attended.
func (c *StatusController) Complete(ctx context.Context, id string) (*models.Appointment, error) {
	return c.transition(ctx, id, models.SystemActor, models.StatusCompleted)
}

// CompletePast completes every confirmed appointment dated before today
// (YYYY-MM-DD) and returns how many were moved. One failure does not stop
// the rest.
func (c *StatusController) CompletePast(ctx context.Context, today string) (int, error) {
	due, err := c.appointments.Query(ctx, repository.AppointmentFilter{
		Status: models.StatusConfirmed,
		Before: today,
	})
	if err != nil {
		return 0, fmt.Errorf("finding appointments to complete: %w", err)
	}

	done := 0
	for _, a := range due {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if _, err := c.Complete(ctx, a.ID); err != nil {
			c.log.Warn("failed to complete appointment",
				zap.String("appointment_id", a.ID),
				zap.Error(err),
			)
			continue
		}
		done++
	}
	c.metrics.AppointmentsSwept.Add(float64(done))
	return done, nil
}

func (c *StatusController) transition(ctx context.Context, id string, actor models.Actor, to models.AppointmentStatus) (*models.Appointment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := c.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RolePatient && a.PatientID != actor.UserID {
		return nil, ErrForbidden
	}
	return c.apply(ctx, a, actor, to)
}

func (c *StatusController) apply(ctx context.Context, a *models.Appointment, actor models.Actor, to models.AppointmentStatus) (*models.Appointment, error) {
	if err := a.CheckTransition(actor.Role, to); err != nil {
		return nil, err
	}
	from := a.Status
	if err := c.appointments.SetStatus(ctx, a.ID, to); err != nil {
		return nil, err
	}

	c.metrics.StatusChangesTotal.WithLabelValues(string(to), string(actor.Role)).Inc()
	c.log.Info("appointment status changed",
		zap.String("appointment_id", a.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor_id", actor.UserID),
		zap.String("actor_role", string(actor.Role)),
	)
	return c.appointments.Get(ctx, a.ID)
}
