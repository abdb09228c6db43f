package sampledata

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/hospital-app/models"
)

func TestDoctors(t *testing.T) {
	doctors, err := Doctors()
	require.NoError(t, err)
	require.Len(t, doctors, 6)

	sarah := doctors[0]
	assert.Equal(t, "Dr. Sarah Johnson", sarah.Name)
	assert.Equal(t, "Cardiology", sarah.Specialization)

	want := models.Availability{
		"Monday":    {"09:00", "10:00", "11:00", "14:00", "15:00"},
		"Tuesday":   {"09:00", "10:00", "11:00", "14:00", "15:00"},
		"Wednesday": {"09:00", "10:00", "11:00"},
		"Thursday":  {"09:00", "10:00", "11:00", "14:00", "15:00"},
		"Friday":    {"09:00", "10:00", "11:00"},
	}
	if diff := cmp.Diff(want, sarah.Availability); diff != "" {
		t.Errorf("Sarah's availability mismatch (-want +got):\n%s", diff)
	}

	for _, d := range doctors {
		assert.NotContains(t, d.Availability, "Saturday", d.Name)
		assert.NotContains(t, d.Availability, "Sunday", d.Name)
		assert.InDelta(t, 4.7, d.Rating, 0.3, d.Name)
	}
}

func TestUsers(t *testing.T) {
	users, err := Users()
	require.NoError(t, err)
	require.Len(t, users, 2)

	john := users[0]
	assert.Equal(t, "patient1", john.ID)
	assert.Equal(t, models.RolePatient, john.Role)
	assert.Equal(t, "password123", john.Password)
	assert.Equal(t, "O+", john.BloodGroup)
	require.NotNil(t, john.Address)
	assert.Equal(t, "10001", john.Address.ZipCode)
	require.NotNil(t, john.EmergencyContact)
	assert.Equal(t, "Spouse", john.EmergencyContact.Relationship)
	assert.Equal(t, []string{"Hypertension", "Diabetes Type 2"}, john.MedicalHistory)

	assert.Equal(t, models.RoleAdmin, users[1].Role)
	assert.Nil(t, users[1].EmergencyContact)
}

func TestAppointments(t *testing.T) {
	doctors, err := Doctors()
	require.NoError(t, err)

	appts, err := Appointments(doctors)
	require.NoError(t, err)
	require.Len(t, appts, 3)

	first := appts[0]
	assert.Equal(t, "Dr. Sarah Johnson", first.DoctorName)
	assert.Equal(t, "Cardiology", first.DoctorSpecialization)
	assert.Equal(t, models.StatusConfirmed, first.Status)
	assert.Equal(t, time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC), first.CreatedAt.UTC())

	_, err = Appointments(nil)
	assert.ErrorIs(t, err, models.ErrDoctorNotFound)
}
