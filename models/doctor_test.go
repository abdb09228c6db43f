package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayOfWeek(t *testing.T) {
	d, err := ParseDayOfWeek("monday")
	require.NoError(t, err)
	assert.Equal(t, Monday, d)

	d, err = ParseDayOfWeek(" SATURDAY ")
	require.NoError(t, err)
	assert.Equal(t, Saturday, d)

	_, err = ParseDayOfWeek("Funday")
	assert.ErrorIs(t, err, ErrInvalidAvailability)
}

func TestDoctorNormalize(t *testing.T) {
	t.Run("canonicalises weekday keys", func(t *testing.T) {
		d := &Doctor{ID: "1", Rating: 4.8, Availability: Availability{
			"monday":  {"09:00", "10:00"},
			"FRIDAY":  {"11:00"},
			"Tuesday": {},
		}}
		require.NoError(t, d.Normalize())
		assert.Equal(t, []string{"09:00", "10:00"}, d.Availability["Monday"])
		assert.Equal(t, []string{"11:00"}, d.Availability["Friday"])
		assert.Equal(t, []string{"Monday", "Friday"}, d.Days())
	})

	t.Run("rejects out of order slots", func(t *testing.T) {
		d := &Doctor{ID: "1", Availability: Availability{"Monday": {"10:00", "09:00"}}}
		assert.ErrorIs(t, d.Normalize(), ErrInvalidAvailability)
	})

	t.Run("rejects duplicate slots", func(t *testing.T) {
		d := &Doctor{ID: "1", Availability: Availability{"Monday": {"10:00", "10:00"}}}
		assert.ErrorIs(t, d.Normalize(), ErrInvalidAvailability)
	})

	t.Run("rejects duplicate weekday spellings", func(t *testing.T) {
		d := &Doctor{ID: "1", Availability: Availability{"Monday": {"10:00"}, "monday": {"11:00"}}}
		assert.ErrorIs(t, d.Normalize(), ErrInvalidAvailability)
	})

	t.Run("rejects malformed labels", func(t *testing.T) {
		d := &Doctor{ID: "1", Availability: Availability{"Monday": {"9am"}}}
		assert.ErrorIs(t, d.Normalize(), ErrInvalidAvailability)
	})

	t.Run("rejects rating out of range", func(t *testing.T) {
		d := &Doctor{ID: "1", Rating: 5.5}
		assert.Error(t, d.Normalize())
	})
}

func TestUserProfileCopy(t *testing.T) {
	u := &User{UserProfile: UserProfile{
		ID:             "1",
		Address:        &Address{City: "New York"},
		MedicalHistory: []string{"Hypertension"},
	}}
	p := u.Profile()
	p.Address.City = "Boston"
	p.MedicalHistory[0] = "None"

	assert.Equal(t, "New York", u.Address.City)
	assert.Equal(t, "Hypertension", u.MedicalHistory[0])
}
