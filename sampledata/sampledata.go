// Package sampledata embeds the demo doctors, accounts and appointments the
// portal starts with.
package sampledata

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meinhoongagan/hospital-app/models"
)

//go:embed doctors.yaml users.yaml appointments.yaml
var files embed.FS

// SeedUser is a demo account with its plaintext password.
type SeedUser struct {
	models.UserProfile `yaml:",inline"`
	Password           string `yaml:"password"`
}

type seedAppointment struct {
	ID          string                   `yaml:"id"`
	PatientID   string                   `yaml:"patientId"`
	PatientName string                   `yaml:"patientName"`
	DoctorID    string                   `yaml:"doctorId"`
	Date        string                   `yaml:"date"`
	Time        string                   `yaml:"time"`
	Reason      string                   `yaml:"reason"`
	Status      models.AppointmentStatus `yaml:"status"`
	CreatedAt   time.Time                `yaml:"createdAt"`
}

func decode(name string, out any) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Doctors returns the validated doctor catalogue.
func Doctors() ([]models.Doctor, error) {
	var doc struct {
		Doctors []models.Doctor `yaml:"doctors"`
	}
	if err := decode("doctors.yaml", &doc); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(doc.Doctors))
	for i := range doc.Doctors {
		d := &doc.Doctors[i]
		if d.ID == "" || seen[d.ID] {
			return nil, fmt.Errorf("doctors.yaml: missing or duplicate id %q", d.ID)
		}
		seen[d.ID] = true
		if err := d.Normalize(); err != nil {
			return nil, err
		}
	}
	return doc.Doctors, nil
}

// Users returns the demo accounts.
func Users() ([]SeedUser, error) {
	var doc struct {
		Users []SeedUser `yaml:"users"`
	}
	if err := decode("users.yaml", &doc); err != nil {
		return nil, err
	}
	for _, u := range doc.Users {
		if !u.Role.IsValid() {
			return nil, fmt.Errorf("users.yaml: user %s has invalid role %q", u.ID, u.Role)
		}
	}
	return doc.Users, nil
}

// Appointments returns the demo appointments with doctor display fields
// filled in from doctors.
func Appointments(doctors []models.Doctor) ([]models.Appointment, error) {
	var doc struct {
		Appointments []seedAppointment `yaml:"appointments"`
	}
	if err := decode("appointments.yaml", &doc); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Doctor, len(doctors))
	for _, d := range doctors {
		byID[d.ID] = d
	}

	out := make([]models.Appointment, 0, len(doc.Appointments))
	for _, s := range doc.Appointments {
		d, ok := byID[s.DoctorID]
		if !ok {
			return nil, fmt.Errorf("appointments.yaml: appointment %s: %w", s.ID, models.ErrDoctorNotFound)
		}
		if !s.Status.IsValid() {
			return nil, fmt.Errorf("appointments.yaml: appointment %s has invalid status %q", s.ID, s.Status)
		}
		out = append(out, models.Appointment{
			ID:                   s.ID,
			PatientID:            s.PatientID,
			PatientName:          s.PatientName,
			DoctorID:             d.ID,
			DoctorName:           d.Name,
			DoctorSpecialization: d.Specialization,
			Date:                 s.Date,
			Time:                 s.Time,
			Reason:               s.Reason,
			Status:               s.Status,
			CreatedAt:            s.CreatedAt,
			UpdatedAt:            s.CreatedAt,
		})
	}
	return out, nil
}
