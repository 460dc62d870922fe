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

	"clinic-scheduling/config"
	deliveryHttp "clinic-scheduling/internal/delivery/http"
	"clinic-scheduling/internal/delivery/http/handler"
	"clinic-scheduling/internal/delivery/http/middleware"
	"clinic-scheduling/internal/infrastructure/cache"
	"clinic-scheduling/internal/infrastructure/database"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/jwt"
	"clinic-scheduling/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Publisher   *service.AppointmentEventPublisher
	Consumer    *service.AppointmentEventConsumer
}

// New creates a new App instance with all dependencies initialized
func New(configPath string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.Log)
	app.Log.Info("Configuration loaded successfully")

	// Apply schema migrations before gorm touches the tables
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.DB); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initialize wires repositories, usecases, the event emitter and the HTTP server.
func (app *App) initialize() error {
	cfg, db, log := app.Config, app.DB, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	statusRepo := repository.NewAppointmentStatusRepository()
	appointmentRepo := repository.NewAppointmentRepository()

	// Initialize reference data usecases
	statusUsecase := usecase.NewAppointmentStatusUsecase(db, log, statusRepo, appointmentRepo)
	specialtyUsecase := usecase.NewSpecialtyUsecase(db, log, specialtyRepo)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, app.RedisClient)
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, app.RedisClient)

	// Seed reference data before any background worker starts
	ctx := context.Background()
	if err := statusUsecase.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed appointment statuses: %w", err)
	}
	if err := userUsecase.EnsureAdmin(ctx, cfg.Admin); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	// Initialize event emitter
	transport := service.NewRedisStreamTransport(app.RedisClient, cfg.Events.StreamPrefix, cfg.Events.StreamMaxLen)
	if cfg.Events.Enabled {
		if err := transport.ClaimPartitions(ctx, cfg.Events.Partitions); err != nil {
			return fmt.Errorf("failed to verify event partitions: %w", err)
		}
	}
	app.Publisher = service.NewAppointmentEventPublisher(cfg.Events, transport, log)
	if cfg.Events.Enabled && cfg.Events.ConsumerEnabled {
		app.Consumer = service.NewAppointmentEventConsumer(
			app.RedisClient,
			log,
			service.StreamNames(cfg.Events.StreamPrefix, cfg.Events.Partitions),
			cfg.Events.ConsumerGroup,
			cfg.Events.ConsumerName,
			nil,
		)
	}

	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, statusRepo, userRepo, specialtyRepo, app.Publisher)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	statusHandler := handler.NewStatusHandler(statusUsecase, customValidator)
	specialtyHandler := handler.NewSpecialtyHandler(specialtyUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		statusHandler,
		specialtyHandler,
		userHandler,
		authMiddleware,
		corsMiddleware,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run serves HTTP (and consumes events when enabled) until SIGINT/SIGTERM or a fatal error,
// then shuts everything down.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	if app.Consumer != nil {
		g.Go(func() error {
			return app.Consumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			app.Log.Errorf("Server forced to shutdown: %v", err)
		}
		return nil
	})

	err := g.Wait()

	// Requests are drained; Close flushes queued events before closing Redis
	app.Close()

	app.Log.Info("Server shutdown complete")
	return err
}

// Close stops the event publisher if it was started and closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.Publisher != nil {
		app.Publisher.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
