// Package migrations manages the database schema.
//
// Schema changes are plain SQL files embedded into the binary and applied by
// goose. Applied versions are tracked in goose's version table, so running
// the migrations again is a no-op.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var embedded embed.FS

// Status describes one migration and whether it has been applied.
type Status struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the embedded migrations to a MySQL database.
type Migrator struct {
	provider *goose.Provider
}

// NewMigrator creates a new migrator.
//
// Parameters:
//   - db: an open MySQL connection pool
//
// Returns:
//   - *Migrator: A configured migrator
//   - error: when the embedded migrations cannot be loaded
func NewMigrator(db *sql.DB) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("migrator requires a database connection")
	}

	fsys, err := fs.Sub(embedded, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectMySQL, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	return &Migrator{provider: provider}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	log.Info().Msg("Running database migrations")
	start := time.Now()

	results, err := m.provider.Up(ctx)
	for _, result := range results {
		logResult(result)
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info().
		Int("migrations_run", len(results)).
		Int("total_migrations", len(m.provider.ListSources())).
		Dur("duration", time.Since(start)).
		Msg("Database migrations completed")
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		logResult(result)
	}
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			log.Info().Msg("No migration to roll back")
			return nil
		}
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status reports every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version:   s.Source.Version,
			Name:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Version returns the highest applied migration version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return m.provider.GetDBVersion(ctx)
}

// Sources lists the embedded migration files in version order.
func (m *Migrator) Sources() []Status {
	sources := m.provider.ListSources()
	out := make([]Status, 0, len(sources))
	for _, s := range sources {
		out = append(out, Status{Version: s.Version, Name: s.Path})
	}
	return out
}

func logResult(result *goose.MigrationResult) {
	event := log.Info()
	if result.Error != nil {
		event = log.Error().Err(result.Error)
	}
	event.
		Int64("version", result.Source.Version).
		Str("migration", result.Source.Path).
		Str("direction", result.Direction).
		Dur("duration", result.Duration).
		Msg("Migration applied")
}
