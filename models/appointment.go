package models

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Appointment struct {
	ID                   string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PatientID            string            `json:"patientId" gorm:"column:patient_id;type:varchar(64);not null;index"`
	PatientName          string            `json:"patientName" gorm:"column:patient_name;type:varchar(200)"`
	DoctorID             string            `json:"doctorId" gorm:"column:doctor_id;type:varchar(64);not null;index"`
	DoctorName           string            `json:"doctorName" gorm:"column:doctor_name;type:varchar(200)"`
	DoctorSpecialization string            `json:"doctorSpecialization" gorm:"column:doctor_specialization;type:varchar(100)"`
	Date                 string            `json:"date" gorm:"column:date;type:varchar(10);not null;index"`
	Time                 string            `json:"time" gorm:"column:time;type:varchar(5);not null"`
	Reason               string            `json:"reason" gorm:"column:reason;type:text"`
	Status               AppointmentStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	CreatedAt            time.Time         `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time         `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Holds reports whether a occupies its doctor's slot.
func (a *Appointment) Holds() bool {
	return a.Status != StatusCancelled
}

// Day parses the appointment date in loc.
func (a *Appointment) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, a.Date, loc)
}

// transitions lists, per current status, the targets each role may move to.
var transitions = map[AppointmentStatus]map[AppointmentStatus][]Role{
	StatusPending: {
		StatusConfirmed: {RoleAdmin},
		StatusCancelled: {RoleAdmin, RolePatient},
	},
	StatusConfirmed: {
		StatusCancelled: {RoleAdmin, RolePatient},
		StatusCompleted: {RoleSystem},
	},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether role may move a from its current status to next.
func (a *Appointment) CanTransition(role Role, next AppointmentStatus) bool {
	for _, r := range transitions[a.Status][next] {
		if r == role {
			return true
		}
	}
	return false
}

// CheckTransition is CanTransition with a descriptive error.
func (a *Appointment) CheckTransition(role Role, next AppointmentStatus) error {
	if a.Status.IsTerminal() {
		return fmt.Errorf("%w: no transitions allowed from %s", ErrInvalidStatusTransition, a.Status)
	}
	if !a.CanTransition(role, next) {
		return fmt.Errorf("%w: %s cannot move %s to %s", ErrInvalidStatusTransition, role, a.Status, next)
	}
	return nil
}
