// Package session caches the signed-in user's profile under the
// hospital_user key so it can be restored after a reload.
package session

import (
	"context"
	"errors"

	"github.com/meinhoongagan/hospital-app/models"
)

// KeyPrefix namespaces session entries; the user ID follows it.
const KeyPrefix = "hospital_user"

// ErrNotFound is returned when no session is cached for the user.
var ErrNotFound = errors.New("session not found")

// Key returns the cache key for userID.
func Key(userID string) string {
	return KeyPrefix + ":" + userID
}

// Store persists one profile per user.
type Store interface {
	Save(ctx context.Context, profile models.UserProfile) error
	Load(ctx context.Context, userID string) (*models.UserProfile, error)
	Delete(ctx context.Context, userID string) error
}
