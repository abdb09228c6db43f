package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/sampledata"
)

var ErrEmailTaken = errors.New("email is already registered")

// UserRepository stores accounts. Emails are unique regardless of case and
// surrounding space.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Seed registers the demo accounts that are not registered yet.
	Seed(ctx context.Context, users []sampledata.SeedUser) error
}

// MemoryUsers keeps accounts in memory, keyed by ID and lower-cased email.
type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

// HashPassword hashes a plaintext password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores u. The email must not be registered yet.
func (s *MemoryUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(u.Email)
	if _, taken := s.byEmail[email]; taken {
		return ErrEmailTaken
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	stored := *u
	s.byID[stored.ID] = &stored
	s.byEmail[email] = stored.ID
	return nil
}

func (s *MemoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *MemoryUsers) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemoryUsers) Seed(ctx context.Context, users []sampledata.SeedUser) error {
	return seedUsers(ctx, s, users)
}

// seedUsers hashes each demo password and creates the account, skipping
// addresses that are already registered.
func seedUsers(ctx context.Context, repo UserRepository, users []sampledata.SeedUser) error {
	for _, su := range users {
		hash, err := HashPassword(su.Password)
		if err != nil {
			return err
		}
		u := &models.User{UserProfile: su.UserProfile, PasswordHash: hash}
		if err := repo.Create(ctx, u); err != nil && !errors.Is(err, ErrEmailTaken) {
			return fmt.Errorf("seeding user %s: %w", su.ID, err)
		}
	}
	return nil
}
