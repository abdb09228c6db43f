package services

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
)

var (
	owner    = models.Actor{UserID: "patient1", Role: models.RolePatient}
	stranger = models.Actor{UserID: "patient2", Role: models.RolePatient}
)

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, "2024-02-19", "10:00")

	_, err := f.status.Approve(ctx, a.ID, owner)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.status.Approve(ctx, a.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	pending, err := f.repo.Query(ctx, repository.AppointmentFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
	confirmed, err := f.repo.Query(ctx, repository.AppointmentFilter{Status: models.StatusConfirmed})
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)

	// approving twice is an illegal transition
	_, err = f.status.Approve(ctx, a.ID, admin)
	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StatusChangesTotal.WithLabelValues("confirmed", "admin")))
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, "2024-02-19", "10:00")
	b := f.book(t, "2024-02-19", "11:00")

	got, err := f.status.Reject(ctx, a.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	_, err = f.status.Approve(ctx, b.ID, admin)
	require.NoError(t, err)
	_, err = f.status.Reject(ctx, b.ID, admin)
	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition, "confirmed appointments are cancelled, not rejected")

	_, err = f.status.Reject(ctx, b.ID, owner)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		confirm bool
		actor   models.Actor
		wantErr error
	}{
		{"owner cancels pending", false, owner, nil},
		{"owner cancels confirmed", true, owner, nil},
		{"admin cancels confirmed", true, admin, nil},
		{"other patient", false, stranger, ErrForbidden},
		{"system actor", false, models.SystemActor, ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			a := f.book(t, "2024-02-19", "10:00")
			if tc.confirm {
				_, err := f.status.Approve(ctx, a.ID, admin)
				require.NoError(t, err)
			}

			got, err := f.status.Cancel(ctx, a.ID, tc.actor)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				stored, err := f.repo.Get(ctx, a.ID)
				require.NoError(t, err)
				assert.NotEqual(t, models.StatusCancelled, stored.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, got.Status)
		})
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled := f.book(t, "2024-02-19", "09:00")
	_, err := f.status.Cancel(ctx, cancelled.ID, owner)
	require.NoError(t, err)

	_, err = f.status.Approve(ctx, cancelled.ID, admin)
	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
	_, err = f.status.Cancel(ctx, cancelled.ID, admin)
	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
	_, err = f.status.Complete(ctx, cancelled.ID)
	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)

	completed := f.book(t, "2024-02-19", "10:00")
	_, err = f.status.Approve(ctx, completed.ID, admin)
	require.NoError(t, err)
	_, err = f.status.Complete(ctx, completed.ID)
	require.NoError(t, err)

	_, err = f.status.Cancel(ctx, completed.ID, owner)
	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, "2024-02-19", "10:00")

	_, err := f.status.Complete(context.Background(), a.ID)
	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
}

func TestUnknownAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.status.Approve(ctx, "missing", admin)
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)
	_, err = f.status.Reject(ctx, "missing", admin)
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)
	_, err = f.status.Cancel(ctx, "missing", owner)
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)
	_, err = f.status.Complete(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)
}

func TestCompletePast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	confirmedPast := f.book(t, "2024-02-15", "09:00")
	pendingPast := f.book(t, "2024-02-15", "10:00")
	confirmedToday := f.book(t, "2024-02-16", "09:00")
	for _, a := range []string{confirmedPast.ID, confirmedToday.ID} {
		_, err := f.status.Approve(ctx, a, admin)
		require.NoError(t, err)
	}

	n, err := f.status.CompletePast(ctx, "2024-02-16")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.repo.Get(ctx, confirmedPast.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	got, err = f.repo.Get(ctx, pendingPast.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status, "pending appointments are left alone")

	got, err = f.repo.Get(ctx, confirmedToday.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AppointmentsSwept))
}

func TestConcurrentDecisionsOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, "2024-02-19", "10:00")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.status.Approve(ctx, a.ID, admin)
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := f.status.Reject(ctx, a.ID, admin)
		results <- err
	}()
	wg.Wait()
	close(results)

	failures := 0
	for err := range results {
		if err != nil {
			assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
}
