// Package jobs runs the periodic background work of the API: refreshing the
// population gauges and probing the database.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/metrics"
)

// Job names.
const (
	JobStatsRefresh  = "stats-refresh"
	JobDatabaseProbe = "database-probe"
)

// StatsSource is the part of the stats repository the refresh job reads.
type StatsSource interface {
	CountUsers(ctx context.Context) (int64, error)
	CountEvents(ctx context.Context) (int64, error)
	CountEventsByStatus(ctx context.Context, status string) (int64, error)
}

// Scheduler owns a gocron scheduler and the jobs registered on it.
type Scheduler struct {
	scheduler gocron.Scheduler
	stats     StatsSource
	db        database.HealthChecker
	metrics   *metrics.Metrics

	mu   sync.RWMutex
	jobs map[string]gocron.Job
}

// NewScheduler creates the scheduler and registers both jobs. Nothing runs
// until Start is called.
func NewScheduler(cfg *config.JobSettings, stats StatsSource, db database.HealthChecker, m *metrics.Metrics) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: scheduler,
		stats:     stats,
		db:        db,
		metrics:   m,
		jobs:      make(map[string]gocron.Job),
	}

	statsInterval, probeInterval := constants.DefaultStatsRefreshInterval, constants.DefaultDBProbeInterval
	if cfg != nil {
		if cfg.StatsRefreshInterval > 0 {
			statsInterval = cfg.StatsRefreshInterval
		}
		if cfg.DBProbeInterval > 0 {
			probeInterval = cfg.DBProbeInterval
		}
	}

	if err := s.register(JobStatsRefresh, statsInterval, s.RefreshStats); err != nil {
		return nil, err
	}
	if err := s.register(JobDatabaseProbe, probeInterval, s.ProbeDatabase); err != nil {
		return nil, err
	}

	log.Info().
		Int("jobs", len(s.jobs)).
		Dur("stats_interval", statsInterval).
		Dur("probe_interval", probeInterval).
		Msg("Registered background jobs")
	return s, nil
}

func (s *Scheduler) register(name string, interval time.Duration, run func(ctx context.Context) error) error {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.JobTimeout)
			defer cancel()

			if err := run(ctx); err != nil {
				log.Error().Err(err).Str("job", name).Msg("Background job failed")
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}

	s.mu.Lock()
	s.jobs[name] = job
	s.mu.Unlock()
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	log.Info().Strs("jobs", s.JobNames()).Msg("Starting background job scheduler")
	s.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() error {
	log.Info().Msg("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}

// JobNames lists the registered jobs
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// RefreshStats copies the user and event counts into the metrics gauges.
func (s *Scheduler) RefreshStats(ctx context.Context) error {
	users, err := s.stats.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	events, err := s.stats.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	pending, err := s.stats.CountEventsByStatus(ctx, constants.EventStatusPending)
	if err != nil {
		return fmt.Errorf("failed to count pending events: %w", err)
	}

	s.metrics.SetStats(users, events, pending)
	log.Debug().
		Int64("users", users).
		Int64("events", events).
		Int64("pending", pending).
		Msg("Refreshed stats gauges")
	return nil
}

// ProbeDatabase pings the database and records the result.
func (s *Scheduler) ProbeDatabase(ctx context.Context) error {
	err := s.db.HealthCheck(ctx)
	s.metrics.SetDatabaseUp(err == nil)
	if err != nil {
		return fmt.Errorf("database probe failed: %w", err)
	}
	return nil
}
