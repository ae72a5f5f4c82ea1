// Package server provides the HTTP server for the Eventure API.
// It wires configuration, storage, services and handlers together and
// manages the server lifecycle including graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/cache"
	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/handlers"
	"github.com/eventure/eventure-api/internal/jobs"
	"github.com/eventure/eventure-api/internal/metrics"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/service"
	"github.com/eventure/eventure-api/internal/telemetry"
	"github.com/eventure/eventure-api/internal/utils"
	"github.com/eventure/eventure-api/migrations"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	Auth          *handlers.AuthHandler
	PasswordReset *handlers.PasswordResetHandler
	Events        *handlers.EventHandler
	Admin         *handlers.AdminHandler
	Dev           *handlers.DevHandler
	Health        *handlers.HealthHandler
}

// Server represents the API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router         chi.Router
	authMiddleware *auth.Middleware
	metrics        *metrics.Metrics
	cacheStore     cache.Store
	resetService   *service.PasswordResetService
	scheduler      *jobs.Scheduler
	stopTracing    telemetry.ShutdownFunc
	httpServer     *http.Server
}

// repositories holds the data access layer used by the services.
type repositories struct {
	users  repository.UserRepository
	resets repository.PasswordResetRepository
	events repository.EventRepository
	zips   repository.ZipRepository
	stats  repository.StatsRepository
}

// NewServer creates a new server instance with all required components.
//
// Initialization order: telemetry, database, cache, repositories, services
// and handlers, background jobs, routes. Any failure releases what was
// already opened.
func NewServer(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config:  cfg,
		metrics: metrics.New(),
	}

	utils.SetExposeDevInfo(!cfg.App.IsProduction())

	stopTracing, err := telemetry.Init(ctx, &cfg.App, &cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	s.stopTracing = stopTracing

	if err := s.setupDatabase(ctx); err != nil {
		s.release(ctx)
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s.setupCache(ctx)

	repos := s.setupRepositories()
	s.setupHandlers(repos)

	if err := s.setupJobs(repos.stats); err != nil {
		s.release(ctx)
		return nil, fmt.Errorf("failed to set up jobs: %w", err)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase connects to MySQL and applies or checks the schema.
func (s *Server) setupDatabase(ctx context.Context) error {
	db, err := database.Connect(ctx, s.Config)
	if err != nil {
		return err
	}
	s.Db = db

	if s.Config.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db.DB)
		if err != nil {
			return err
		}
		return migrator.Up(ctx)
	}

	missing, err := migrations.MissingTables(ctx, db)
	if err != nil {
		log.Warn().Err(err).Msg("Could not verify database schema")
		return nil
	}
	if len(missing) > 0 {
		log.Warn().
			Strs("tables", missing).
			Msg("Database schema is incomplete, run the migrate command")
	}
	return nil
}

// setupCache connects the optional Redis cache. A failure disables caching.
func (s *Server) setupCache(ctx context.Context) {
	store, err := cache.NewRedisStore(ctx, &s.Config.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, zip lookups will not be cached")
		return
	}
	s.cacheStore = store
}

func (s *Server) setupRepositories() *repositories {
	ttl := s.Config.Redis.ZipTTL
	if ttl <= 0 {
		ttl = constants.DefaultZipCacheTTL
	}

	return &repositories{
		users:  repository.NewUserRepository(s.Db),
		resets: repository.NewPasswordResetRepository(s.Db),
		events: repository.NewEventRepository(s.Db),
		zips:   cache.NewZipRepository(repository.NewZipRepository(s.Db), s.cacheStore, ttl),
		stats:  repository.NewStatsRepository(s.Db),
	}
}

// setupHandlers builds the services and the handlers that expose them.
func (s *Server) setupHandlers(repos *repositories) {
	cfg := s.Config

	jwtService := auth.NewJWTService(&cfg.JWT)
	s.authMiddleware = auth.NewMiddleware(jwtService, repos.users)

	mailer := service.NewMailer(&cfg.Mail, s.metrics)

	authService := service.NewAuthService(repos.users, jwtService, s.metrics)
	resetService := service.NewPasswordResetService(s.Db, repos.users, repos.resets, mailer, &cfg.PasswordReset, s.metrics)
	s.resetService = resetService
	eventService := service.NewEventService(repos.events, repos.zips)
	adminService := service.NewAdminService(repos.events, repos.stats)

	s.Handlers = &Handlers{
		Auth:          handlers.NewAuthHandler(authService, cfg.App.IsProduction()),
		PasswordReset: handlers.NewPasswordResetHandler(resetService),
		Events:        handlers.NewEventHandler(eventService),
		Admin:         handlers.NewAdminHandler(adminService),
		Dev:           handlers.NewDevHandler(mailer, !cfg.App.IsProduction()),
		Health:        handlers.NewHealthHandler(s.Db, &cfg.App),
	}
}

func (s *Server) setupJobs(stats repository.StatsRepository) error {
	if !s.Config.Jobs.Enabled {
		return nil
	}

	scheduler, err := jobs.NewScheduler(&s.Config.Jobs, stats, s.Db, s.metrics)
	if err != nil {
		return err
	}
	s.scheduler = scheduler
	return nil
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal arrives, then shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.httpServer.Addr).
			Str("environment", s.Config.App.Environment).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	if s.scheduler != nil {
		s.scheduler.Start()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		s.release(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		timeout := s.Config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = constants.DefaultShutdownTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("Failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown waits for in-flight requests and pending reset emails, then
// stops jobs and closes the cache, the database and the tracer.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info().Msg("Server stopped gracefully")

	if s.resetService != nil {
		s.resetService.Wait()
	}
	s.release(ctx)
	return nil
}

// release closes every resource the server opened. It is safe on a
// partially initialized server.
func (s *Server) release(ctx context.Context) {
	if s.scheduler != nil {
		if err := s.scheduler.Stop(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop job scheduler")
		}
		s.scheduler = nil
	}

	if s.cacheStore != nil {
		if err := s.cacheStore.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
		s.cacheStore = nil
	}

	if s.Db != nil {
		s.Db.Close()
		s.Db = nil
		log.Info().Msg("Database connection closed")
	}

	if s.stopTracing != nil {
		if err := s.stopTracing(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
		s.stopTracing = nil
	}
}
