package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/meinhoongagan/hospital-app/config"
	"github.com/meinhoongagan/hospital-app/metrics"
	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/session"
	"github.com/meinhoongagan/hospital-app/utils"
)

var loginMessages = fieldMessages{
	"email.required":    "Email is required",
	"password.required": "Password is required",
}

var registerMessages = fieldMessages{
	"name.required":           "Name is required",
	"email.required":          "Email is required",
	"email.email":             "Please enter a valid email address",
	"password.required":       "Password is required",
	"password.strongpassword": "Password must be at least 8 characters with uppercase, lowercase, and number",
	"confirmPassword":         "Passwords do not match",
	"dateOfBirth":             "Please enter a valid date of birth",
	"age":                     "Age cannot be negative",
}

// ErrEmailTaken is returned by Register for an already registered address.
var ErrEmailTaken = repository.ErrEmailTaken

const refreshTokenTTL = 7 * 24 * time.Hour

type LoginRequest struct {
	Email    string      `json:"email" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role"`
}

type RegisterRequest struct {
	Name             string                   `json:"name" validate:"required"`
	Email            string                   `json:"email" validate:"required,email"`
	Password         string                   `json:"password" validate:"required,strongpassword"`
	ConfirmPassword  string                   `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Role             models.Role              `json:"role"`
	Phone            string                   `json:"phone"`
	Age              int                      `json:"age" validate:"gte=0"`
	BloodGroup       string                   `json:"bloodGroup"`
	DateOfBirth      string                   `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender           string                   `json:"gender"`
	Address          *models.Address          `json:"address"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact"`
	MedicalHistory   []string                 `json:"medicalHistory"`
}

// AuthResult is what a successful login or registration hands back.
type AuthResult struct {
	Token        string             `json:"token"`
	RefreshToken string             `json:"refreshToken"`
	ExpiresAt    time.Time          `json:"expiresAt"`
	User         models.UserProfile `json:"user"`
}

type AuthService struct {
	users    repository.UserRepository
	sessions session.Store
	jwt      config.JWTConfig
	latency  time.Duration
	metrics  *metrics.Collector
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	sessions session.Store,
	jwtCfg config.JWTConfig,
	authCfg config.AuthConfig,
	collector *metrics.Collector,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		jwt:      jwtCfg,
		latency:  authCfg.SimulatedLatency,
		metrics:  collector,
		log:      log,
		now:      time.Now,
	}
}

// Login checks email, password and role together; any mismatch yields
// ErrInvalidCredentials without saying which.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	fields, err := check(req, loginMessages)
	if err != nil {
		return nil, err
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil || !repository.CheckPassword(u.PasswordHash, req.Password) || u.Role != req.Role {
		s.metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	s.metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return s.start(ctx, u.Profile())
}

// Register creates a patient account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if req.Role == "" {
		req.Role = models.RolePatient
	}
	if req.Role != models.RolePatient {
		return nil, ErrForbidden
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	fields, err := check(req, registerMessages)
	if err != nil {
		return nil, err
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	hash, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &models.User{
		UserProfile: models.UserProfile{
			ID:               utils.GenerateID(),
			Name:             req.Name,
			Email:            req.Email,
			Role:             models.RolePatient,
			Phone:            strings.TrimSpace(req.Phone),
			Age:              req.Age,
			BloodGroup:       req.BloodGroup,
			DateOfBirth:      req.DateOfBirth,
			Gender:           req.Gender,
			Address:          req.Address,
			EmergencyContact: req.EmergencyContact,
			MedicalHistory:   req.MedicalHistory,
		},
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))

	return s.start(ctx, u.Profile())
}

// Logout drops the cached session. Issued tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

// Profile returns the cached session profile, rebuilding it from the user
// store when the cache has lost it.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.sessions.Load(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		s.log.Warn("session lookup failed", zap.String("user_id", userID), zap.Error(err))
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.Profile()
	if err := s.sessions.Save(ctx, profile); err != nil {
		s.log.Warn("failed to restore session", zap.String("user_id", userID), zap.Error(err))
	}
	return &profile, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil || !token.Valid || claims["typ"] != "refresh" {
		return nil, ErrInvalidCredentials
	}
	id, _ := claims["id"].(string)
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.start(ctx, u.Profile())
}

// start issues tokens and caches the profile under the session key.
func (s *AuthService) start(ctx context.Context, profile models.UserProfile) (*AuthResult, error) {
	now := s.now()
	expires := now.Add(s.jwt.TokenTTL)

	access, err := s.sign(jwt.MapClaims{
		"id":    profile.ID,
		"email": profile.Email,
		"role":  string(profile.Role),
		"iat":   now.Unix(),
		"exp":   expires.Unix(),
	})
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(jwt.MapClaims{
		"id":  profile.ID,
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(refreshTokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &AuthResult{
		Token:        access,
		RefreshToken: refresh,
		ExpiresAt:    expires,
		User:         profile,
	}, nil
}

func (s *AuthService) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// wait stands in for a remote identity provider round trip.
func (s *AuthService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
