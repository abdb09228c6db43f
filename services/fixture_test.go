package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meinhoongagan/hospital-app/config"
	"github.com/meinhoongagan/hospital-app/metrics"
	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/sampledata"
	"github.com/meinhoongagan/hospital-app/session"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// failingRepo wraps a repository and fails every Insert.
type failingRepo struct {
	repository.AppointmentRepository
}

func (failingRepo) Insert(context.Context, *models.Appointment) error {
	return errors.New("disk on fire")
}

type fixture struct {
	now       time.Time
	repo      *repository.MemoryAppointments
	doctors   *repository.DoctorCatalog
	users     repository.UserRepository
	sessions  *session.MemoryStore
	mailer    *fakeMailer
	metrics   *metrics.Collector
	booking   *BookingService
	status    *StatusController
	auth      *AuthService
	dashboard *Dashboard
}

var john = models.UserProfile{
	ID:    "patient1",
	Name:  "John Smith",
	Email: "patient@hospital.com",
	Role:  models.RolePatient,
}

var admin = models.Actor{UserID: "admin1", Role: models.RoleAdmin}

// Thursday 2024-02-15, 09:30 UTC.
var fixedNow = time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctors, err := sampledata.Doctors()
	require.NoError(t, err)
	users, err := sampledata.Users()
	require.NoError(t, err)

	f := &fixture{
		now:      fixedNow,
		repo:     repository.NewMemoryAppointments(),
		doctors:  repository.NewDoctorCatalog(doctors),
		users:    repository.NewMemoryUsers(),
		sessions: session.NewMemoryStore(time.Hour),
		mailer:   &fakeMailer{},
		metrics:  metrics.NewCollector("test"),
	}
	require.NoError(t, f.users.Seed(context.Background(), users))

	clock := func() time.Time { return f.now }
	log := zap.NewNop()

	f.booking = NewBookingService(f.repo, f.doctors, f.mailer, f.metrics, time.UTC, log)
	f.booking.now = clock
	f.status = NewStatusController(f.repo, f.metrics, log)
	f.auth = NewAuthService(f.users, f.sessions,
		config.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour},
		config.AuthConfig{}, f.metrics, log)
	f.auth.now = clock
	f.dashboard = NewDashboard(f.repo, f.doctors, time.UTC)
	f.dashboard.now = clock
	return f
}

// book stores a pending appointment for john and fails the test otherwise.
func (f *fixture) book(t *testing.T, date, slot string) *models.Appointment {
	t.Helper()
	a, err := f.booking.Book(context.Background(), BookingRequest{
		DoctorID: "1", Date: date, Time: slot, Reason: "Regular checkup",
	}, john)
	require.NoError(t, err)
	return a
}
