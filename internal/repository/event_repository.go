package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// EventRepository defines methods for interacting with event data
type EventRepository interface {
	// ListPublic returns approved public events ordered by start time.
	// When center is non-nil only events within radiusMeters of it are returned.
	ListPublic(ctx context.Context, filter models.EventFilter, center *models.GeoPoint, radiusMeters float64) ([]*models.Event, error)
	GetPublicByID(ctx context.Context, id uint64) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	ListByCreator(ctx context.Context, creatorID uint64) ([]*models.Event, error)
	ListForAdmin(ctx context.Context) ([]*models.AdminEvent, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}

// MySQLEventRepository is a MySQL implementation of EventRepository
type MySQLEventRepository struct {
	db *database.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *database.Pool) EventRepository {
	return &MySQLEventRepository{db: db}
}

const eventColumns = `id, title, description, starts_at, ends_at, venue, address_line1, address_line2,
		city, state, zip_code, location, category, created_by, created_at, status, is_public, lat, lng`

func eventScanTargets(e *models.Event) []interface{} {
	return []interface{}{
		&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.EndsAt, &e.Venue, &e.AddressLine1, &e.AddressLine2,
		&e.City, &e.State, &e.ZipCode, &e.Location, &e.Category, &e.CreatedBy, &e.CreatedAt, &e.Status,
		&e.IsPublic, &e.Lat, &e.Lng,
	}
}

func scanEvents(rows *sql.Rows) ([]*models.Event, error) {
	events := make([]*models.Event, 0)
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(eventScanTargets(event)...); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// ListPublic returns approved public events ordered by start time
func (r *MySQLEventRepository) ListPublic(ctx context.Context, filter models.EventFilter, center *models.GeoPoint, radiusMeters float64) ([]*models.Event, error) {
	startTime := time.Now()

	where := []string{"status = ?", "is_public = ?"}
	args := []interface{}{constants.EventStatusApproved, true}

	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}

	if center != nil {
		where = append(where,
			"lat IS NOT NULL",
			"lng IS NOT NULL",
			"ST_Distance_Sphere(POINT(lng, lat), POINT(?, ?)) <= ?",
		)
		args = append(args, center.Lng, center.Lat, radiusMeters)
	}

	query := "SELECT " + eventColumns + " FROM events WHERE " + strings.Join(where, " AND ") + " ORDER BY starts_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetPublicByID retrieves an approved public event
func (r *MySQLEventRepository) GetPublicByID(ctx context.Context, id uint64) (*models.Event, error) {
	startTime := time.Now()

	query := "SELECT " + eventColumns + " FROM events WHERE id = ? AND status = ? AND is_public = ? LIMIT 1"
	args := []interface{}{id, constants.EventStatusApproved, true}

	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(eventScanTargets(event)...)

	utils.LogDBQuery(query, args, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgEventNotFound)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// Create inserts a new event
func (r *MySQLEventRepository) Create(ctx context.Context, event *models.Event) error {
	startTime := time.Now()

	query := `
		INSERT INTO events (title, description, starts_at, ends_at, venue, address_line1, address_line2,
			city, state, zip_code, location, category, created_by, created_at, status, is_public, lat, lng)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		event.Title, event.Description, event.StartsAt, event.EndsAt, event.Venue, event.AddressLine1,
		event.AddressLine2, event.City, event.State, event.ZipCode, event.Location, event.Category,
		event.CreatedBy, event.CreatedAt, event.Status, event.IsPublic, event.Lat, event.Lng,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new event id: %w", err)
	}
	event.ID = uint64(id)

	log.Info().
		Uint64("event_id", event.ID).
		Uint64("created_by", event.CreatedBy).
		Str("status", event.Status).
		Msg("Event created")

	return nil
}

// ListByCreator returns every event created by a user, newest first
func (r *MySQLEventRepository) ListByCreator(ctx context.Context, creatorID uint64) ([]*models.Event, error) {
	startTime := time.Now()

	query := "SELECT " + eventColumns + " FROM events WHERE created_by = ? ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, creatorID)

	utils.LogDBQuery(query, []interface{}{creatorID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list events by creator: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListForAdmin returns all events with organizer name and RSVP count, newest first
func (r *MySQLEventRepository) ListForAdmin(ctx context.Context) ([]*models.AdminEvent, error) {
	startTime := time.Now()

	query := `
		SELECT
			e.id, e.title, e.description, e.starts_at, e.ends_at, e.venue, e.address_line1, e.address_line2,
			e.city, e.state, e.zip_code, e.location, e.category, e.created_by, e.created_at, e.status,
			e.is_public, e.lat, e.lng,
			COALESCE(CONCAT(u.first_name, ' ', u.last_name), 'Unknown') AS organizer_name,
			COALESCE(rsvp_counts.rsvp_count, 0) AS rsvp_count
		FROM events e
		LEFT JOIN users u ON e.created_by = u.id
		LEFT JOIN (
			SELECT event_id, COUNT(*) AS rsvp_count
			FROM rsvps
			WHERE status = ?
			GROUP BY event_id
		) rsvp_counts ON e.id = rsvp_counts.event_id
		ORDER BY e.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, constants.RSVPStatusGoing)

	utils.LogDBQuery(query, []interface{}{constants.RSVPStatusGoing}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list events for admin: %w", err)
	}
	defer rows.Close()

	events := make([]*models.AdminEvent, 0)
	for rows.Next() {
		event := &models.AdminEvent{}
		targets := append(eventScanTargets(&event.Event), &event.OrganizerName, &event.RSVPCount)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan admin event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate admin events: %w", err)
	}

	return events, nil
}

// Exists checks whether an event with the id exists in any status
func (r *MySQLEventRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	startTime := time.Now()

	query := "SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)"

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return exists, nil
}

// UpdateStatus sets the moderation status of an event
func (r *MySQLEventRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	startTime := time.Now()

	query := "UPDATE events SET status = ? WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, status, id)

	utils.LogDBQuery(query, []interface{}{status, id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	return requireAffected(result, id)
}

// Delete removes an event
func (r *MySQLEventRepository) Delete(ctx context.Context, id uint64) error {
	startTime := time.Now()

	query := "DELETE FROM events WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if err := requireAffected(result, id); err != nil {
		return err
	}

	log.Info().Uint64("event_id", id).Msg("Event deleted")
	return nil
}

// requireAffected turns a zero-row write into the event not found error.
// The DSN sets clientFoundRows so unchanged rows still count as matched.
func requireAffected(result sql.Result, id uint64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundMessage(constants.MsgEventNotFound)
	}
	return nil
}
