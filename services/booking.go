package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meinhoongagan/hospital-app/metrics"
	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/utils"
)

const (
	msgDoctorRequired = "Please select a doctor"
	msgDateRequired   = "Please select a date"
	msgDateInvalid    = "Please select a valid date"
	msgDateInPast     = "Please select a date that is not in the past"
	msgTimeRequired   = "Please select a time slot"
	msgTimeNotOffered = "Selected time is not available for this date"
	msgReasonRequired = "Please provide a reason for your visit"
	msgReasonTooLong  = "Reason must be 500 characters or fewer"
)

type BookingRequest struct {
	DoctorID string `json:"doctorId" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required"`
	Reason   string `json:"reason" validate:"required,max=500"`
}

var bookingMessages = fieldMessages{
	"doctorId.required": msgDoctorRequired,
	"date.required":     msgDateRequired,
	"date.datetime":     msgDateInvalid,
	"time.required":     msgTimeRequired,
	"reason.required":   msgReasonRequired,
	"reason.max":        msgReasonTooLong,
}

// SlotView is a doctor's schedule for one calendar date.
type SlotView struct {
	DoctorID string   `json:"doctorId"`
	Date     string   `json:"date"`
	Weekday  string   `json:"weekday"`
	Slots    []string `json:"slots"`
	Open     []string `json:"open"`
}

type BookingService struct {
	appointments repository.AppointmentRepository
	doctors      *repository.DoctorCatalog
	mailer       utils.Mailer
	metrics      *metrics.Collector
	log          *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewBookingService(
	appointments repository.AppointmentRepository,
	doctors *repository.DoctorCatalog,
	mailer utils.Mailer,
	collector *metrics.Collector,
	loc *time.Location,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		doctors:      doctors,
		mailer:       mailer,
		metrics:      collector,
		log:          log,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *BookingService) today() time.Time {
	return utils.StartOfDay(s.now().In(s.loc))
}

// Book validates req against the doctor's availability and stores a
// pending appointment for patient. All field problems are reported together
// and nothing is stored when any exist.
func (s *BookingService) Book(ctx context.Context, req BookingRequest, patient models.UserProfile) (*models.Appointment, error) {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Reason = strings.TrimSpace(req.Reason)

	fields, err := check(req, bookingMessages)
	if err != nil {
		return nil, err
	}

	var doctor *models.Doctor
	if req.DoctorID != "" {
		doctor, err = s.doctors.Get(req.DoctorID)
		if err != nil {
			s.metrics.BookingsTotal.WithLabelValues("invalid").Inc()
			return nil, err
		}
	}

	var day time.Time
	if _, bad := fields["date"]; !bad {
		day, err = utils.ParseDate(req.Date, s.loc)
		switch {
		case err != nil:
			fields.add("date", msgDateInvalid)
		case day.Before(s.today()):
			fields.add("date", msgDateInPast)
		}
	}
	_, badDate := fields["date"]
	_, badTime := fields["time"]
	if doctor != nil && !badDate && !badTime && !utils.IsSlotOffered(doctor, day, req.Time) {
		fields.add("time", msgTimeNotOffered)
	}

	if err := fields.err(); err != nil {
		s.metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	a := &models.Appointment{
		PatientID:            patient.ID,
		PatientName:          patient.Name,
		DoctorID:             doctor.ID,
		DoctorName:           doctor.Name,
		DoctorSpecialization: doctor.Specialization,
		Date:                 utils.FormatDate(day),
		Time:                 req.Time,
		Reason:               req.Reason,
		Status:               models.StatusPending,
		CreatedAt:            s.now(),
	}
	if err := s.appointments.Insert(ctx, a); err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			s.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
			return nil, err
		}
		s.metrics.BookingsTotal.WithLabelValues("error").Inc()
		s.log.Error("failed to store appointment", zap.Error(err))
		return nil, fmt.Errorf("booking appointment: %w", err)
	}
	s.metrics.BookingsTotal.WithLabelValues("created").Inc()

	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID),
		zap.String("patient_id", a.PatientID),
		zap.String("doctor_id", a.DoctorID),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
	)

	if patient.Email != "" {
		if err := s.mailer.Send(ctx, patient.Email, "Appointment Request Received", bookingEmail(patient.Name, a)); err != nil {
			s.log.Warn("failed to send booking confirmation",
				zap.String("appointment_id", a.ID),
				zap.Error(err),
			)
		}
	}

	return a, nil
}

// Slots resolves the doctor's template for date and marks which slots are
// still open.
func (s *BookingService) Slots(ctx context.Context, doctorID, date string) (*SlotView, error) {
	doctor, err := s.doctors.Get(doctorID)
	if err != nil {
		return nil, err
	}
	day, err := utils.ParseDate(date, s.loc)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": msgDateInvalid}}
	}

	booked, err := s.appointments.Query(ctx, repository.AppointmentFilter{
		DoctorID: doctor.ID,
		Date:     utils.FormatDate(day),
	})
	if err != nil {
		return nil, err
	}

	return &SlotView{
		DoctorID: doctor.ID,
		Date:     utils.FormatDate(day),
		Weekday:  day.Weekday().String(),
		Slots:    utils.ResolveSlots(doctor, day),
		Open:     utils.OpenSlots(doctor, day, booked),
	}, nil
}

func bookingEmail(name string, a *models.Appointment) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your appointment request. It will be confirmed by our staff shortly.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s (%s)</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Reason:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Best regards,</p>
		<p>MedCare Hospital</p>
	`,
		html.EscapeString(name),
		html.EscapeString(a.DoctorName),
		html.EscapeString(a.DoctorSpecialization),
		html.EscapeString(a.Date),
		html.EscapeString(a.Time),
		html.EscapeString(a.Reason),
		html.EscapeString(string(a.Status)),
	)
}
