package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// SlotLayout is the time-of-day format of slot labels.
const SlotLayout = "15:04"

// DayOfWeek mirrors time.Weekday: Sunday=0 ... Saturday=6.
type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (d DayOfWeek) String() string {
	return time.Weekday(d).String()
}

// ParseDayOfWeek accepts a weekday name in any letter case.
func ParseDayOfWeek(name string) (DayOfWeek, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := Sunday; d <= Saturday; d++ {
		if strings.ToLower(d.String()) == n {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidAvailability, name)
}

// Availability maps a weekday name to its ordered slot labels.
type Availability map[string][]string

type Doctor struct {
	ID             string       `json:"id" yaml:"id"`
	Name           string       `json:"name" yaml:"name"`
	Specialization string       `json:"specialization" yaml:"specialization"`
	Experience     int          `json:"experience" yaml:"experience"`
	Rating         float64      `json:"rating" yaml:"rating"`
	Email          string       `json:"email" yaml:"email"`
	Phone          string       `json:"phone" yaml:"phone"`
	Photo          string       `json:"photo" yaml:"photo"`
	Availability   Availability `json:"availability" yaml:"availability"`
}

// Normalize canonicalises weekday keys and checks the template invariants:
// known weekdays, parseable labels, unique and strictly increasing per day.
func (d *Doctor) Normalize() error {
	if d.Rating < 0 || d.Rating > 5 {
		return fmt.Errorf("doctor %s: rating %.1f out of range", d.ID, d.Rating)
	}

	normalized := make(Availability, len(d.Availability))
	for name, slots := range d.Availability {
		day, err := ParseDayOfWeek(name)
		if err != nil {
			return fmt.Errorf("doctor %s: %w", d.ID, err)
		}
		key := day.String()
		if _, dup := normalized[key]; dup {
			return fmt.Errorf("%w: doctor %s lists %s twice", ErrInvalidAvailability, d.ID, key)
		}

		var prev time.Time
		for i, label := range slots {
			t, err := time.Parse(SlotLayout, label)
			if err != nil {
				return fmt.Errorf("%w: doctor %s %s slot %q", ErrInvalidAvailability, d.ID, key, label)
			}
			if i > 0 && !t.After(prev) {
				return fmt.Errorf("%w: doctor %s %s slots not in chronological order at %q", ErrInvalidAvailability, d.ID, key, label)
			}
			prev = t
		}
		normalized[key] = append([]string(nil), slots...)
	}
	d.Availability = normalized
	return nil
}

// Days returns the weekdays with at least one slot, Sunday first.
func (d *Doctor) Days() []string {
	days := make([]DayOfWeek, 0, len(d.Availability))
	for name, slots := range d.Availability {
		if len(slots) == 0 {
			continue
		}
		if day, err := ParseDayOfWeek(name); err == nil {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	out := make([]string, len(days))
	for i, day := range days {
		out[i] = day.String()
	}
	return out
}
