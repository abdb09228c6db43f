package services

import (
	"context"
	"sort"
	"time"

	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/utils"
)

type AdminStats struct {
	TotalDoctors      int `json:"totalDoctors"`
	TotalAppointments int `json:"totalAppointments"`
	Pending           int `json:"pendingAppointments"`
	Confirmed         int `json:"confirmedAppointments"`
	Cancelled         int `json:"cancelledAppointments"`
	Completed         int `json:"completedAppointments"`
	Today             int `json:"todayAppointments"`
}

// PatientAppointments splits a patient's appointments the way their
// dashboard shows them. Cancelled appointments dated today or later appear
// in neither list.
type PatientAppointments struct {
	Upcoming []models.Appointment `json:"upcoming"`
	Past     []models.Appointment `json:"past"`
}

// Dashboard answers the read-side questions of both dashboards.
type Dashboard struct {
	appointments repository.AppointmentRepository
	doctors      *repository.DoctorCatalog
	loc          *time.Location
	now          func() time.Time
}

func NewDashboard(appointments repository.AppointmentRepository, doctors *repository.DoctorCatalog, loc *time.Location) *Dashboard {
	return &Dashboard{appointments: appointments, doctors: doctors, loc: loc, now: time.Now}
}

func (d *Dashboard) today() string {
	return utils.FormatDate(d.now().In(d.loc))
}

func (d *Dashboard) AdminStats(ctx context.Context) (*AdminStats, error) {
	all, err := d.appointments.Query(ctx, repository.AppointmentFilter{})
	if err != nil {
		return nil, err
	}

	today := d.today()
	stats := &AdminStats{
		TotalDoctors:      d.doctors.Count(),
		TotalAppointments: len(all),
	}
	for _, a := range all {
		switch a.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusConfirmed:
			stats.Confirmed++
		case models.StatusCancelled:
			stats.Cancelled++
		case models.StatusCompleted:
			stats.Completed++
		}
		if a.Date == today {
			stats.Today++
		}
	}
	return stats, nil
}

func (d *Dashboard) PatientAppointments(ctx context.Context, patientID string) (*PatientAppointments, error) {
	mine, err := d.appointments.Query(ctx, repository.AppointmentFilter{PatientID: patientID})
	if err != nil {
		return nil, err
	}

	today := d.today()
	out := &PatientAppointments{
		Upcoming: make([]models.Appointment, 0),
		Past:     make([]models.Appointment, 0),
	}
	for _, a := range mine {
		switch {
		case a.Status == models.StatusCompleted || a.Date < today:
			out.Past = append(out.Past, a)
		case a.Status != models.StatusCancelled:
			out.Upcoming = append(out.Upcoming, a)
		}
	}
	sortBySchedule(out.Upcoming, false)
	sortBySchedule(out.Past, true)
	return out, nil
}

// List returns appointments matching f. Patients only ever see their own.
func (d *Dashboard) List(ctx context.Context, f repository.AppointmentFilter, actor models.Actor) ([]models.Appointment, error) {
	if actor.Role == models.RolePatient {
		f.PatientID = actor.UserID
	}
	list, err := d.appointments.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	sortBySchedule(list, false)
	return list, nil
}

// Get returns one appointment; patients may only read their own.
func (d *Dashboard) Get(ctx context.Context, id string, actor models.Actor) (*models.Appointment, error) {
	a, err := d.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RolePatient && a.PatientID != actor.UserID {
		return nil, ErrForbidden
	}
	return a, nil
}

// sortBySchedule orders by date then slot, newest first when desc is set.
func sortBySchedule(list []models.Appointment, desc bool) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Date != b.Date {
			return (a.Date < b.Date) != desc
		}
		if a.Time != b.Time {
			return (a.Time < b.Time) != desc
		}
		return false
	})
}
