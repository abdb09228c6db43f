package repository

import (
	"context"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meinhoongagan/hospital-app/config"
	"github.com/meinhoongagan/hospital-app/db"
	"github.com/meinhoongagan/hospital-app/models"
)

// backend builds empty stores for one driver.
type backend struct {
	name         string
	appointments func(t *testing.T) seedableAppointments
	users        func(t *testing.T) UserRepository
}

type seedableAppointments interface {
	AppointmentRepository
	Seed(ctx context.Context, appointments []models.Appointment) error
}

// backends returns the memory driver and, when POSTGRES_TEST_URL is set,
// the Postgres driver against a freshly truncated schema.
func backends(t *testing.T) []backend {
	t.Helper()
	out := []backend{{
		name:         "memory",
		appointments: func(*testing.T) seedableAppointments { return NewMemoryAppointments() },
		users:        func(*testing.T) UserRepository { return NewMemoryUsers() },
	}}

	dsn := os.Getenv("POSTGRES_TEST_URL")
	if dsn == "" {
		return out
	}
	gdb := openTestDB(t, dsn)
	return append(out, backend{
		name: "postgres",
		appointments: func(t *testing.T) seedableAppointments {
			truncate(t, gdb)
			return NewGormAppointments(gdb)
		},
		users: func(t *testing.T) UserRepository {
			truncate(t, gdb)
			return NewGormUsers(gdb)
		},
	})
}

// testSchema keeps these tests' truncates away from other packages that
// share the database.
const testSchema = "repository_test"

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	admin, err := db.Connect(ctx, config.PostgresConfig{URL: dsn}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, admin.Exec("CREATE SCHEMA IF NOT EXISTS "+testSchema).Error)
	require.NoError(t, db.Close(admin))

	u, err := url.Parse(dsn)
	require.NoError(t, err, "POSTGRES_TEST_URL must be a postgres:// URL")
	q := u.Query()
	q.Set("search_path", testSchema)
	u.RawQuery = q.Encode()

	gdb, err := db.Connect(ctx, config.PostgresConfig{URL: u.String(), MaxOpenConns: 30, MaxIdleConns: 5}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb, zap.NewNop()))
	return gdb
}

func truncate(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	require.NoError(t, gdb.Exec("TRUNCATE TABLE appointments, users").Error)
}
