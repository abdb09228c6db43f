package cron

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/meinhoongagan/hospital-app/config"
	"github.com/meinhoongagan/hospital-app/metrics"
	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/services"
	"github.com/meinhoongagan/hospital-app/utils"
)

// jobTimeout bounds one run of any scheduled job.
const jobTimeout = 5 * time.Minute

// Scheduler runs the completion sweep and the reminder mailer.
type Scheduler struct {
	cron         *cron.Cron
	status       *services.StatusController
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	mailer       utils.Mailer
	metrics      *metrics.Collector
	log          *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewScheduler(
	cfg config.JobsConfig,
	status *services.StatusController,
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	mailer utils.Mailer,
	collector *metrics.Collector,
	loc *time.Location,
	log *zap.Logger,
) (*Scheduler, error) {
	cl := cronLogger{log.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		status:       status,
		appointments: appointments,
		users:        users,
		mailer:       mailer,
		metrics:      collector,
		log:          log,
		loc:          loc,
		now:          time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.SweepSchedule, s.runSweep); err != nil {
		return nil, fmt.Errorf("scheduling sweep %q: %w", cfg.SweepSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.ReminderSchedule, s.runReminders); err != nil {
		return nil, fmt.Errorf("scheduling reminders %q: %w", cfg.ReminderSchedule, err)
	}
	return s, nil
}

// Start runs the sweep once, then hands the schedule to the cron goroutine.
func (s *Scheduler) Start() {
	s.runSweep()
	s.cron.Start()
	s.log.Info("job scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts the schedule and waits for running jobs or ctx, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("job scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) today() time.Time {
	return utils.StartOfDay(s.now().In(s.loc))
}

// Sweep completes confirmed appointments dated before today.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	return s.status.CompletePast(ctx, utils.FormatDate(s.today()))
}

// SendReminders mails every patient with a confirmed appointment tomorrow.
// It returns how many reminders went out.
func (s *Scheduler) SendReminders(ctx context.Context) (int, error) {
	tomorrow := utils.FormatDate(s.today().AddDate(0, 0, 1))
	due, err := s.appointments.Query(ctx, repository.AppointmentFilter{
		Status: models.StatusConfirmed,
		Date:   tomorrow,
	})
	if err != nil {
		return 0, fmt.Errorf("finding appointments for reminders: %w", err)
	}
	s.log.Info("found appointments for reminders", zap.Int("count", len(due)), zap.String("date", tomorrow))

	sent := 0
	for i := range due {
		a := &due[i]
		patient, err := s.users.GetByID(ctx, a.PatientID)
		if err != nil {
			s.log.Warn("no contact for reminder",
				zap.String("appointment_id", a.ID),
				zap.String("patient_id", a.PatientID),
				zap.Error(err),
			)
			s.metrics.RemindersSentTotal.WithLabelValues("failed").Inc()
			continue
		}
		if err := s.mailer.Send(ctx, patient.Email, "Reminder: Upcoming Appointment - "+a.DoctorName, reminderEmail(patient.Name, a)); err != nil {
			s.log.Warn("failed to send reminder", zap.String("appointment_id", a.ID), zap.Error(err))
			s.metrics.RemindersSentTotal.WithLabelValues("failed").Inc()
			continue
		}
		s.metrics.RemindersSentTotal.WithLabelValues("sent").Inc()
		sent++
	}
	return sent, nil
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.Sweep(ctx)
	if err != nil {
		s.log.Error("completion sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("completion sweep finished", zap.Int("completed", n))
	}
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.SendReminders(ctx); err != nil {
		s.log.Error("reminder job failed", zap.Error(err))
	}
}

func reminderEmail(name string, a *models.Appointment) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your appointment tomorrow.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s (%s)</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to cancel, do so from your dashboard as soon as possible.</p>
		<p>Best regards,</p>
		<p>MedCare Hospital</p>
	`,
		html.EscapeString(name),
		html.EscapeString(a.DoctorName),
		html.EscapeString(a.DoctorSpecialization),
		html.EscapeString(a.Date),
		html.EscapeString(a.Time),
	)
}

// cronLogger routes the scheduler's own messages through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
