package models

import (
	"time"
)

type Address struct {
	Street  string `json:"street,omitempty" yaml:"street"`
	City    string `json:"city,omitempty" yaml:"city"`
	State   string `json:"state,omitempty" yaml:"state"`
	ZipCode string `json:"zipCode,omitempty" yaml:"zipCode"`
	Country string `json:"country,omitempty" yaml:"country"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty" yaml:"name"`
	Relationship string `json:"relationship,omitempty" yaml:"relationship"`
	Phone        string `json:"phone,omitempty" yaml:"phone"`
}

// UserProfile is the session record cached under the hospital_user key.
// It never carries credentials.
type UserProfile struct {
	ID               string            `json:"id" yaml:"id" gorm:"primaryKey;type:varchar(64)"`
	Name             string            `json:"name" yaml:"name" gorm:"type:varchar(200);not null"`
	Email            string            `json:"email" yaml:"email" gorm:"type:varchar(255);not null"`
	Role             Role              `json:"role" yaml:"role" gorm:"type:varchar(20);not null;default:'patient'"`
	Phone            string            `json:"phone,omitempty" yaml:"phone" gorm:"type:varchar(30)"`
	Age              int               `json:"age,omitempty" yaml:"age"`
	BloodGroup       string            `json:"bloodGroup,omitempty" yaml:"bloodGroup" gorm:"type:varchar(5)"`
	DateOfBirth      string            `json:"dateOfBirth,omitempty" yaml:"dateOfBirth" gorm:"type:varchar(10)"`
	Gender           string            `json:"gender,omitempty" yaml:"gender" gorm:"type:varchar(20)"`
	Address          *Address          `json:"address,omitempty" yaml:"address" gorm:"serializer:json;type:jsonb"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty" yaml:"emergencyContact" gorm:"serializer:json;type:jsonb"`
	MedicalHistory   []string          `json:"medicalHistory,omitempty" yaml:"medicalHistory" gorm:"serializer:json;type:jsonb"`
}

// User is an account row. The profile columns are embedded.
type User struct {
	UserProfile
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

// Profile returns a copy safe to hand to callers.
func (u *User) Profile() UserProfile {
	p := u.UserProfile
	if p.Address != nil {
		addr := *p.Address
		p.Address = &addr
	}
	if p.EmergencyContact != nil {
		ec := *p.EmergencyContact
		p.EmergencyContact = &ec
	}
	p.MedicalHistory = append([]string(nil), p.MedicalHistory...)
	return p
}
