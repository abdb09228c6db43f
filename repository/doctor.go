package repository

import (
	"sort"
	"strings"

	"github.com/meinhoongagan/hospital-app/models"
)

// DoctorCatalog is the read-only set of doctors loaded at startup.
type DoctorCatalog struct {
	doctors []models.Doctor
	byID    map[string]int
}

func NewDoctorCatalog(doctors []models.Doctor) *DoctorCatalog {
	c := &DoctorCatalog{
		doctors: doctors,
		byID:    make(map[string]int, len(doctors)),
	}
	for i, d := range doctors {
		c.byID[d.ID] = i
	}
	return c
}

// All returns every doctor in catalogue order.
func (c *DoctorCatalog) All() []models.Doctor {
	return append([]models.Doctor(nil), c.doctors...)
}

func (c *DoctorCatalog) Get(id string) (*models.Doctor, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, models.ErrDoctorNotFound
	}
	d := c.doctors[i]
	return &d, nil
}

// Search matches term as a case-insensitive substring of the name or the
// specialization, and specialization exactly, ignoring case. Empty arguments
// match every doctor.
func (c *DoctorCatalog) Search(term, specialization string) []models.Doctor {
	term = strings.ToLower(strings.TrimSpace(term))
	specialization = strings.TrimSpace(specialization)

	out := make([]models.Doctor, 0)
	for _, d := range c.doctors {
		if term != "" &&
			!strings.Contains(strings.ToLower(d.Name), term) &&
			!strings.Contains(strings.ToLower(d.Specialization), term) {
			continue
		}
		if specialization != "" && !strings.EqualFold(d.Specialization, specialization) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Specializations lists the distinct specializations, sorted.
func (c *DoctorCatalog) Specializations() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, d := range c.doctors {
		if !seen[d.Specialization] {
			seen[d.Specialization] = true
			out = append(out, d.Specialization)
		}
	}
	sort.Strings(out)
	return out
}

func (c *DoctorCatalog) Count() int {
	return len(c.doctors)
}
