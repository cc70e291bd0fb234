package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resqhome-backend/internal/config"
	"resqhome-backend/internal/handlers"
	"resqhome-backend/internal/repository"
	"resqhome-backend/internal/router"
	"resqhome-backend/internal/services"
	"resqhome-backend/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Initialize upload store
	store, uploadsDir, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload store")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	rescuedRepo := repository.NewRescuedRepository(db)
	animalRepo := repository.NewAdoptionAnimalRepository(db)
	requestRepo := repository.NewAdoptionRequestRepository(db)
	dashboardRepo := repository.NewDashboardRepository(reportRepo, rescuedRepo, animalRepo, requestRepo)

	// Initialize services
	hub := services.NewEventHub()
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	reportService := services.NewReportService(reportRepo, hub)
	rescueService := services.NewRescueService(rescuedRepo, reportRepo, hub)
	adoptionService := services.NewAdoptionService(animalRepo, requestRepo, rescuedRepo, hub)
	dashboardService := services.NewDashboardService(dashboardRepo)

	// Setup router
	handler := router.New(router.Options{
		Auth:           handlers.NewAuthHandler(userService),
		Profile:        handlers.NewProfileHandler(userService, store),
		Reports:        handlers.NewReportHandler(reportService, store),
		Rescued:        handlers.NewRescuedHandler(rescueService, store),
		Adoptions:      handlers.NewAdoptionHandler(adoptionService, store),
		Requests:       handlers.NewRequestsHandler(adoptionService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Events:         handlers.NewEventsHandler(hub, userService),
		TokenValidator: userService,
		UploadsDir:     uploadsDir,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newStore builds the configured upload store. The second return value is
// the directory to serve statically, empty for remote backends.
func newStore(cfg *config.Config) (storage.Store, string, error) {
	switch cfg.Storage.Backend {
	case "s3":
		s, err := storage.NewS3Store(
			context.Background(),
			cfg.Storage.AWS.Region,
			cfg.Storage.AWS.S3Bucket,
			cfg.Storage.AWS.AccessKey,
			cfg.Storage.AWS.SecretKey,
			cfg.Storage.AWS.Endpoint,
		)
		return s, "", err
	case "local":
		return storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Server.PublicBaseURL), cfg.Storage.LocalDir, nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
