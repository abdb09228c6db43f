package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Jobs     JobsConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Name        string
	Environment string
	TimeZone    string
}

type ServerConfig struct {
	Host            string
	Port            int
	AllowedOrigins  string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	// Appointments is "memory" or "postgres". Accounts use the same driver.
	Appointments string
	// Sessions is "memory" or "redis".
	Sessions string
}

type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
	RetryDelay time.Duration
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type JobsConfig struct {
	Enabled          bool
	SweepSchedule    string
	ReminderSchedule string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether outgoing mail has somewhere to go.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

type AuthConfig struct {
	// SimulatedLatency delays login and registration, standing in for a
	// remote identity provider.
	SimulatedLatency time.Duration
	SeedUsers        bool
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using environment variables directly.")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	e := &envReader{}
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "hospital-app"),
			Environment: getEnv("APP_ENV", "development"),
			TimeZone:    getEnv("APP_TIMEZONE", "UTC"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            e.getInt("SERVER_PORT", 8000),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
			ReadTimeout:     e.getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    e.getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: e.getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Appointments: strings.ToLower(getEnv("APPOINTMENT_STORE", DriverMemory)),
			Sessions:     strings.ToLower(getEnv("SESSION_STORE", DriverMemory)),
		},
		Postgres: PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    e.getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    e.getInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: e.getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         e.getInt("REDIS_DB", 0),
			MaxRetries: e.getInt("REDIS_MAX_RETRIES", 5),
			RetryDelay: e.getDuration("REDIS_RETRY_DELAY", 5*time.Second),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TokenTTL: e.getDuration("JWT_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Jobs: JobsConfig{
			Enabled:          e.getBool("JOBS_ENABLED", true),
			SweepSchedule:    getEnv("JOBS_SWEEP_SCHEDULE", "*/15 * * * *"),
			ReminderSchedule: getEnv("JOBS_REMINDER_SCHEDULE", "0 8 * * *"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     e.getInt("SMTP_PORT", 587),
			User:     getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
			From:     getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),
		},
		Auth: AuthConfig{
			SimulatedLatency: e.getDuration("AUTH_SIMULATED_LATENCY", 0),
			SeedUsers:        e.getBool("AUTH_SEED_USERS", true),
		},
	}

	if err := validate(cfg, e.invalid); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config, invalid []string) error {
	errs := append([]string(nil), invalid...)

	if cfg.JWT.Secret == "" {
		if cfg.App.Environment == "production" {
			errs = append(errs, "JWT_SECRET is required in production")
		} else {
			cfg.JWT.Secret = "development_secret_key"
		}
	} else if len(cfg.JWT.Secret) < 32 && cfg.App.Environment == "production" {
		errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
	}

	switch cfg.Storage.Appointments {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Postgres.URL == "" {
			errs = append(errs, "DATABASE_URL is required when APPOINTMENT_STORE=postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("APPOINTMENT_STORE must be %q or %q, got %q", DriverMemory, DriverPostgres, cfg.Storage.Appointments))
	}

	switch cfg.Storage.Sessions {
	case DriverMemory, DriverRedis:
	default:
		errs = append(errs, fmt.Sprintf("SESSION_STORE must be %q or %q, got %q", DriverMemory, DriverRedis, cfg.Storage.Sessions))
	}

	if _, err := time.LoadLocation(cfg.App.TimeZone); err != nil {
		errs = append(errs, fmt.Sprintf("APP_TIMEZONE %q: %v", cfg.App.TimeZone, err))
	}

	if cfg.JWT.TokenTTL <= 0 {
		errs = append(errs, "JWT_TTL must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// envReader reads typed settings and remembers the ones that do not parse,
// so validate can report them alongside everything else.
type envReader struct {
	invalid []string
}

func (e *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

func (e *envReader) reject(key, value, want string) {
	e.invalid = append(e.invalid, fmt.Sprintf("%s must be %s, got %q", key, want, value))
}

func (e *envReader) getInt(key string, fallback int) int {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.reject(key, v, "an integer")
		return fallback
	}
	return i
}

func (e *envReader) getBool(key string, fallback bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.reject(key, v, "a boolean")
		return fallback
	}
	return b
}

func (e *envReader) getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.reject(key, v, "a duration such as 30s or 5m")
		return fallback
	}
	return d
}
