package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/hospital-app/models"
)

func newAppointment(patient, doctor, date, slot string) *models.Appointment {
	return &models.Appointment{
		PatientID: patient,
		DoctorID:  doctor,
		Date:      date,
		Time:      slot,
		Reason:    "Regular checkup",
	}
}

func ids(list []models.Appointment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestAppointmentRepository(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			t.Run("insert starts pending", func(t *testing.T) { insertStartsPending(t, b.appointments(t)) })
			t.Run("set status moves between queries", func(t *testing.T) { setStatusMoves(t, b.appointments(t)) })
			t.Run("unknown id leaves store untouched", func(t *testing.T) { unknownID(t, b.appointments(t)) })
			t.Run("query filters", func(t *testing.T) { queryFilters(t, b.appointments(t)) })
			t.Run("query returns copies", func(t *testing.T) { queryCopies(t, b.appointments(t)) })
			t.Run("slot conflicts", func(t *testing.T) { slotConflicts(t, b.appointments(t)) })
			t.Run("concurrent inserts have one winner", func(t *testing.T) { oneWinner(t, b.appointments(t)) })
			t.Run("seed keeps status and is idempotent", func(t *testing.T) { seedKeepsStatus(t, b.appointments(t)) })
		})
	}
}

func insertStartsPending(t *testing.T, repo AppointmentRepository) {
	ctx := context.Background()

	a := newAppointment("p1", "d1", "2024-02-19", "10:00")
	a.Status = models.StatusConfirmed
	require.NoError(t, repo.Insert(ctx, a))

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, models.StatusPending, a.Status)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, "Regular checkup", got.Reason)
}

func setStatusMoves(t *testing.T, repo AppointmentRepository) {
	ctx := context.Background()

	a := newAppointment("p1", "d1", "2024-02-19", "10:00")
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.SetStatus(ctx, a.ID, models.StatusConfirmed))

	pending, err := repo.Query(ctx, AppointmentFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	confirmed, err := repo.Query(ctx, AppointmentFilter{Status: models.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(confirmed))
}

func unknownID(t *testing.T, repo AppointmentRepository) {
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newAppointment("p1", "d1", "2024-02-19", "10:00")))

	before, err := repo.Query(ctx, AppointmentFilter{})
	require.NoError(t, err)

	err = repo.SetStatus(ctx, "does-not-exist", models.StatusCancelled)
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)

	after, err := repo.Query(ctx, AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Status, after[i].Status)
	}

	_, err = repo.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)
}

func queryFilters(t *testing.T, repo AppointmentRepository) {
	ctx := context.Background()

	first := newAppointment("p1", "d1", "2024-02-19", "09:00")
	second := newAppointment("p1", "d2", "2024-02-20", "10:00")
	other := newAppointment("p2", "d1", "2024-02-21", "11:00")
	for _, a := range []*models.Appointment{first, second, other} {
		require.NoError(t, repo.Insert(ctx, a))
		// keep creation times strictly ordered
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, repo.SetStatus(ctx, second.ID, models.StatusConfirmed))

	tests := []struct {
		name   string
		filter AppointmentFilter
		want   []string
	}{
		{"empty filter returns all in creation order", AppointmentFilter{}, []string{first.ID, second.ID, other.ID}},
		{"patient and status", AppointmentFilter{PatientID: "p1", Status: models.StatusPending}, []string{first.ID}},
		{"doctor", AppointmentFilter{DoctorID: "d1"}, []string{first.ID, other.ID}},
		{"date", AppointmentFilter{Date: "2024-02-20"}, []string{second.ID}},
		{"before is exclusive", AppointmentFilter{Before: "2024-02-20"}, []string{first.ID}},
		{"before with status", AppointmentFilter{Before: "2024-02-22", Status: models.StatusPending}, []string{first.ID, other.ID}},
		{"no match", AppointmentFilter{PatientID: "p3"}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Query(ctx, tc.filter)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func queryCopies(t *testing.T, repo AppointmentRepository) {
	ctx := context.Background()
	a := newAppointment("p1", "d1", "2024-02-19", "09:00")
	require.NoError(t, repo.Insert(ctx, a))

	got, err := repo.Query(ctx, AppointmentFilter{})
	require.NoError(t, err)
	got[0].Status = models.StatusCompleted
	a.Reason = "changed by caller"

	stored, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, "Regular checkup", stored.Reason)
}

func slotConflicts(t *testing.T, repo AppointmentRepository) {
	ctx := context.Background()

	a := newAppointment("p1", "d1", "2024-02-19", "10:00")
	require.NoError(t, repo.Insert(ctx, a))

	err := repo.Insert(ctx, newAppointment("p2", "d1", "2024-02-19", "10:00"))
	assert.ErrorIs(t, err, models.ErrSlotTaken)

	// another doctor or another time is fine
	require.NoError(t, repo.Insert(ctx, newAppointment("p2", "d2", "2024-02-19", "10:00")))
	require.NoError(t, repo.Insert(ctx, newAppointment("p2", "d1", "2024-02-19", "11:00")))

	// cancelling frees the slot
	require.NoError(t, repo.SetStatus(ctx, a.ID, models.StatusCancelled))
	require.NoError(t, repo.Insert(ctx, newAppointment("p2", "d1", "2024-02-19", "10:00")))
}

func oneWinner(t *testing.T, repo AppointmentRepository) {
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Insert(ctx, newAppointment("p1", "d1", "2024-02-19", "10:00"))
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, models.ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, ok)

	held, err := repo.Query(ctx, AppointmentFilter{DoctorID: "d1", Date: "2024-02-19"})
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func seedKeepsStatus(t *testing.T, repo seedableAppointments) {
	ctx := context.Background()
	created := time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)
	seed := []models.Appointment{
		{ID: "1", PatientID: "patient1", DoctorID: "1", Date: "2024-02-20", Time: "10:00", Status: models.StatusConfirmed, CreatedAt: created},
	}
	require.NoError(t, repo.Seed(ctx, seed))
	require.NoError(t, repo.Seed(ctx, seed))

	all, err := repo.Query(ctx, AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(all))

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.True(t, created.Equal(got.CreatedAt), "created at %v", got.CreatedAt)

	err = repo.Insert(ctx, newAppointment("p9", "1", "2024-02-20", "10:00"))
	assert.ErrorIs(t, err, models.ErrSlotTaken)
}
