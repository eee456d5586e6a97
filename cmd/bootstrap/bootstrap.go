package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-scheduler/config"
	deliveryHttp "clinic-scheduler/internal/delivery/http"
	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/infrastructure/cache"
	"clinic-scheduler/internal/infrastructure/database"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/jwt"
	"clinic-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Locker      service.DoctorLocker
	Dispatcher  service.NotificationDispatcher
	Server      *http.Server
}

// NewLogger configures the process logger from the app config
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Locker = newDoctorLocker(cfg.Scheduling, redisClient, log)
	app.Dispatcher = service.NewNotificationDispatcher(redisClient, log, service.NotificationDispatcherConfig{
		OutboxKey:      cfg.Notification.OutboxKey,
		Workers:        cfg.Notification.Workers,
		QueueSize:      cfg.Notification.QueueSize,
		EnqueueTimeout: cfg.Notification.EnqueueTimeout,
	})

	app.Server = initializeServer(app)

	return app, nil
}

func newDoctorLocker(cfg config.SchedulingConfig, redisClient *redis.Client, log *logrus.Logger) service.DoctorLocker {
	if cfg.LockBackend == config.LockBackendRedis {
		log.Info("Using Redis doctor lock")
		return service.NewRedisDoctorLocker(redisClient, log, cfg.LockTTL, cfg.LockWait)
	}
	log.Info("Using in-process doctor lock")
	return service.NewLocalDoctorLocker(log, cfg.LockWait)
}

// initializeServer creates and configures the HTTP server
func initializeServer(app *App) *http.Server {
	cfg, db, log := app.Config, app.DB, app.Log
	loc := cfg.Scheduling.Location

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	doctorPatientRepo := repository.NewDoctorPatientRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	reportRepo := repository.NewMedicalReportRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)

	// Usecases
	schedulingUsecase := usecase.NewSchedulingUsecase(db, log, loc, app.Locker, auditService,
		userRepo, doctorRepo, availabilityRepo, appointmentRepo, doctorPatientRepo)
	catalogUsecase := usecase.NewAvailabilityCatalogUsecase(db, log, doctorRepo, specialtyRepo, availabilityRepo)
	doctorAvailabilityUsecase := usecase.NewDoctorAvailabilityUsecase(db, log, app.Locker, auditService, doctorRepo, availabilityRepo)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, app.Locker, auditService, userRepo, doctorRepo, specialtyRepo)
	reportUsecase := usecase.NewMedicalReportUsecase(db, log, auditService, userRepo, doctorRepo, doctorPatientRepo, reportRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Handlers
	appointmentHandler := handler.NewAppointmentHandler(schedulingUsecase, app.Dispatcher, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(catalogUsecase, doctorAvailabilityUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, app.Dispatcher, customValidator)
	reportHandler := handler.NewMedicalReportHandler(reportUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	router := deliveryHttp.NewRouter(appointmentHandler, availabilityHandler, doctorHandler, reportHandler,
		auditLogHandler, authMiddleware, corsMiddleware)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until ctx is done or a signal arrives
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			app.Close()
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	app.shutdown()
	return nil
}

func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers, then closes the database and Redis
func (app *App) Close() {
	// the dispatcher drains into Redis, so it stops before the client closes
	if app.Dispatcher != nil {
		app.Dispatcher.Stop()
	}
	if app.Locker != nil {
		app.Locker.Stop()
	}

	if app.DB != nil {
		if err := database.Close(app.DB); err != nil {
			app.Log.Warnf("Failed to close database: %+v", err)
		}
	}

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Log.Warnf("Failed to close Redis: %+v", err)
		}
	}
}
