package utils

import (
	"time"

	"github.com/meinhoongagan/hospital-app/models"
)

// OpenSlots filters the resolved slots for date down to those not held by any
// of the given appointments. Cancelled appointments release their slot.
func OpenSlots(doctor *models.Doctor, date time.Time, booked []models.Appointment) []string {
	day := date.Format(models.DateLayout)
	taken := make(map[string]bool, len(booked))
	for _, a := range booked {
		if a.DoctorID == doctor.ID && a.Date == day && a.Holds() {
			taken[a.Time] = true
		}
	}

	open := make([]string, 0)
	for _, slot := range ResolveSlots(doctor, date) {
		if !taken[slot] {
			open = append(open, slot)
		}
	}
	return open
}
