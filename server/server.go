// Package server assembles the stores, services and HTTP app from Config.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/meinhoongagan/hospital-app/config"
	"github.com/meinhoongagan/hospital-app/controllers"
	"github.com/meinhoongagan/hospital-app/db"
	"github.com/meinhoongagan/hospital-app/metrics"
	"github.com/meinhoongagan/hospital-app/middleware"
	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/routes"
	"github.com/meinhoongagan/hospital-app/sampledata"
	"github.com/meinhoongagan/hospital-app/services"
	"github.com/meinhoongagan/hospital-app/session"
	"github.com/meinhoongagan/hospital-app/utils"
)

// Container holds the wired application.
type Container struct {
	Config   *config.Config
	Log      *zap.Logger
	Location *time.Location
	Metrics  *metrics.Collector

	Appointments repository.AppointmentRepository
	Doctors      *repository.DoctorCatalog
	Users        repository.UserRepository
	Sessions     session.Store
	Mailer       utils.Mailer

	Booking   *services.BookingService
	Status    *services.StatusController
	Auth      *services.AuthService
	Dashboard *services.Dashboard

	closers []func() error
}

// Build opens the configured drivers, loads the demo data and wires the
// services. Close releases whatever Build opened.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Log:      log,
		Location: utils.LoadLocation(cfg.App.TimeZone),
		Metrics:  metrics.NewCollector(metricsNamespace(cfg.App.Name)),
		Mailer:   utils.NewMailer(cfg.SMTP, log),
	}

	doctors, err := sampledata.Doctors()
	if err != nil {
		return nil, fmt.Errorf("loading doctors: %w", err)
	}
	c.Doctors = repository.NewDoctorCatalog(doctors)

	if err := c.openStores(ctx, doctors); err != nil {
		_ = c.Close()
		return nil, err
	}

	if cfg.Auth.SeedUsers {
		users, err := sampledata.Users()
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("loading demo users: %w", err)
		}
		if err := c.Users.Seed(ctx, users); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("seeding demo users: %w", err)
		}
	}

	if err := c.openSessions(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Booking = services.NewBookingService(c.Appointments, c.Doctors, c.Mailer, c.Metrics, c.Location, log)
	c.Status = services.NewStatusController(c.Appointments, c.Metrics, log)
	c.Auth = services.NewAuthService(c.Users, c.Sessions, cfg.JWT, cfg.Auth, c.Metrics, log)
	c.Dashboard = services.NewDashboard(c.Appointments, c.Doctors, c.Location)
	return c, nil
}

// openStores picks the appointment and account stores. Accounts follow the
// appointment driver so a Postgres deployment keeps both across restarts.
func (c *Container) openStores(ctx context.Context, doctors []models.Doctor) error {
	seed, err := sampledata.Appointments(doctors)
	if err != nil {
		return fmt.Errorf("loading demo appointments: %w", err)
	}

	switch c.Config.Storage.Appointments {
	case config.DriverPostgres:
		gdb, err := db.Connect(ctx, c.Config.Postgres, c.Log)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, func() error { return db.Close(gdb) })
		if err := db.Migrate(gdb, c.Log); err != nil {
			return err
		}
		store := repository.NewGormAppointments(gdb)
		if err := store.Seed(ctx, seed); err != nil {
			return fmt.Errorf("seeding appointments: %w", err)
		}
		c.Appointments = store
		c.Users = repository.NewGormUsers(gdb)
	default:
		store := repository.NewMemoryAppointments()
		if err := store.Seed(ctx, seed); err != nil {
			return fmt.Errorf("seeding appointments: %w", err)
		}
		c.Appointments = store
		c.Users = repository.NewMemoryUsers()
	}
	c.Log.Info("appointment and account stores ready", zap.String("driver", c.Config.Storage.Appointments))
	return nil
}

func (c *Container) openSessions(ctx context.Context) error {
	switch c.Config.Storage.Sessions {
	case config.DriverRedis:
		client, err := session.NewRedisClient(ctx, c.Config.Redis, c.Log)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, client.Close)
		c.Sessions = session.NewRedisStore(client, c.Config.JWT.TokenTTL)
	default:
		c.Sessions = session.NewMemoryStore(c.Config.JWT.TokenTTL)
	}
	c.Log.Info("session store ready", zap.String("driver", c.Config.Storage.Sessions))
	return nil
}

// App builds the fiber application with middleware and routes mounted.
func (c *Container) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      c.Config.App.Name,
		ReadTimeout:  c.Config.Server.ReadTimeout,
		WriteTimeout: c.Config.Server.WriteTimeout,
		ErrorHandler: errorHandler(c.Log),
	})

	app.Use(middleware.RequestLogger(c.Log, c.Metrics))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: c.Config.Server.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Setup(app, routes.Handlers{
		Auth:         controllers.NewAuthHandler(c.Auth, c.Log),
		Doctors:      controllers.NewDoctorHandler(c.Doctors, c.Booking),
		Appointments: controllers.NewAppointmentHandler(c.Booking, c.Status, c.Dashboard, c.Auth),
		Dashboard:    controllers.NewDashboardHandler(c.Dashboard),
	}, c.Config.JWT.Secret, c.Metrics)

	return app
}

// Close releases drivers in reverse opening order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
