package utils

import (
	"time"

	"github.com/meinhoongagan/hospital-app/models"
)

// ResolveSlots returns the doctor's bookable slot labels for the weekday date
// falls on. A weekday missing from the template yields an empty slice, not an
// error. Past dates are not rejected here.
func ResolveSlots(doctor *models.Doctor, date time.Time) []string {
	if doctor == nil {
		return []string{}
	}
	// time.Weekday is Sunday=0 ... Saturday=6 and its names are locale independent
	slots, ok := doctor.Availability[date.Weekday().String()]
	if !ok {
		return []string{}
	}
	return append([]string{}, slots...)
}

// IsSlotOffered reports whether label is in the doctor's template for date.
func IsSlotOffered(doctor *models.Doctor, date time.Time, label string) bool {
	for _, s := range ResolveSlots(doctor, date) {
		if s == label {
			return true
		}
	}
	return false
}
