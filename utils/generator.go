package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a random RFC 4122 identifier.
func GenerateID() string {
	return uuid.NewString()
}
