package models

type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
	// RoleSystem is never issued to a user; scheduled jobs act with it.
	RoleSystem Role = "system"
)

func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleAdmin:
		return true
	}
	return false
}

// Actor identifies who is asking for a status change.
type Actor struct {
	UserID string
	Role   Role
}

// SystemActor is used by the completion sweep.
var SystemActor = Actor{UserID: "system", Role: RoleSystem}
