package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// StatsRepository provides the aggregate counts shown to administrators
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountEvents(ctx context.Context) (int64, error)
	CountEventsByStatus(ctx context.Context, status string) (int64, error)
	// PopularCategory returns the most common category among approved events,
	// or models.NoPopularCategory when there is none.
	PopularCategory(ctx context.Context) (models.CategoryCount, error)
}

// MySQLStatsRepository is a MySQL implementation of StatsRepository
type MySQLStatsRepository struct {
	db *database.Pool
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *database.Pool) StatsRepository {
	return &MySQLStatsRepository{db: db}
}

// CountUsers returns the number of users
func (r *MySQLStatsRepository) CountUsers(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM users")
}

// CountEvents returns the number of events in any status
func (r *MySQLStatsRepository) CountEvents(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM events")
}

// CountEventsByStatus returns the number of events with the given status
func (r *MySQLStatsRepository) CountEventsByStatus(ctx context.Context, status string) (int64, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM events WHERE status = ?", status)
}

// PopularCategory returns the most frequent category among approved events
func (r *MySQLStatsRepository) PopularCategory(ctx context.Context) (models.CategoryCount, error) {
	startTime := time.Now()

	query := `
		SELECT category, COUNT(*) AS count
		FROM events
		WHERE status = ? AND category IS NOT NULL AND category <> ''
		GROUP BY category
		ORDER BY count DESC, category ASC
		LIMIT 1`

	var popular models.CategoryCount
	err := r.db.QueryRowContext(ctx, query, constants.EventStatusApproved).Scan(&popular.Name, &popular.Count)

	utils.LogDBQuery(query, []interface{}{constants.EventStatusApproved}, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NoPopularCategory, nil
		}
		return models.CategoryCount{}, fmt.Errorf("failed to get popular category: %w", err)
	}
	return popular, nil
}
