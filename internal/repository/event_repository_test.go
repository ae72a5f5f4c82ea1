package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/utils"
)

var eventRowColumns = []string{
	"id", "title", "description", "starts_at", "ends_at", "venue", "address_line1", "address_line2",
	"city", "state", "zip_code", "location", "category", "created_by", "created_at", "status",
	"is_public", "lat", "lng",
}

func addEventRow(rows *sqlmock.Rows, id int64, title string, starts time.Time) *sqlmock.Rows {
	return rows.AddRow(id, title, nil, starts, nil, "Hall", nil, nil, "Boston", "MA", "02139", nil,
		"Music", int64(2), starts.Add(-48*time.Hour), "approved", true, 42.36, -71.1)
}

func TestEventRepository_ListPublic(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)

	starts := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(eventRowColumns)
	addEventRow(rows, 1, "First", starts)
	addEventRow(rows, 2, "Second", starts.Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? AND is_public = ? ORDER BY starts_at ASC LIMIT ?")).
		WithArgs("approved", true, 10).
		WillReturnRows(rows)

	events, err := repo.ListPublic(context.Background(), models.EventFilter{Limit: 10}, nil, 0)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Title)
	assert.Nil(t, events[0].Description)
	require.NotNil(t, events[0].City)
	assert.Equal(t, "Boston", *events[0].City)
	require.NotNil(t, events[0].Lat)
	assert.InDelta(t, 42.36, *events[0].Lat, 0.0001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListPublic_Radius(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)

	center := &models.GeoPoint{Lat: 40.75, Lng: -73.99}
	meters := 10 * constants.MetersPerMile

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE status = ? AND is_public = ? AND category = ? AND lat IS NOT NULL AND lng IS NOT NULL AND "+
			"ST_Distance_Sphere(POINT(lng, lat), POINT(?, ?)) <= ? ORDER BY starts_at ASC")).
		WithArgs("approved", true, "Music", -73.99, 40.75, meters).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	events, err := repo.ListPublic(context.Background(), models.EventFilter{Category: "Music"}, center, meters)

	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetPublicByID(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)

	starts := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? AND status = ? AND is_public = ? LIMIT 1")).
		WithArgs(uint64(1), "approved", true).
		WillReturnRows(addEventRow(sqlmock.NewRows(eventRowColumns), 1, "Fair", starts))

	event, err := repo.GetPublicByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Fair", event.Title)

	mock.ExpectQuery("FROM events WHERE id").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetPublicByID(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, constants.MsgEventNotFound, utils.ParseError(err).Message)
}

func TestEventRepository_Create(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)

	starts := time.Now().Add(24 * time.Hour)
	event := (&models.CreateEventRequest{Title: "Fair", Category: "Food", StartsAt: &starts}).ToEvent(5)

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(44, 1))

	require.NoError(t, repo.Create(context.Background(), event))
	assert.Equal(t, uint64(44), event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListByCreator(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE created_by = ? ORDER BY created_at DESC")).
		WithArgs(uint64(2)).
		WillReturnRows(addEventRow(sqlmock.NewRows(eventRowColumns), 1, "Mine", time.Now()))

	events, err := repo.ListByCreator(context.Background(), 2)

	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventRepository_ListForAdmin(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)

	starts := time.Now().UTC()
	columns := append(append([]string{}, eventRowColumns...), "organizer_name", "rsvp_count")
	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), "Fair", nil, starts, nil, nil, nil, nil, nil, nil, nil, nil,
			"Food", int64(2), starts, "pending", true, nil, nil, "Jane Doe", int64(3)).
		AddRow(int64(2), "Orphan", nil, starts, nil, nil, nil, nil, nil, nil, nil, nil,
			"Food", int64(9), starts, "approved", true, nil, nil, "Unknown", int64(0))

	mock.ExpectQuery("COALESCE\\(CONCAT\\(u.first_name, ' ', u.last_name\\), 'Unknown'\\)").
		WithArgs("going").
		WillReturnRows(rows)

	events, err := repo.ListForAdmin(context.Background())

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Jane Doe", events[0].OrganizerName)
	assert.Equal(t, int64(3), events[0].RSVPCount)
	assert.Equal(t, "pending", events[0].Status)
	assert.Equal(t, "Unknown", events[1].OrganizerName)
	assert.Nil(t, events[1].Lat)
}

func TestEventRepository_ModerationWrites(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET status = ? WHERE id = ?")).
		WithArgs("approved", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	exists, err := repo.Exists(ctx, 3)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, repo.UpdateStatus(ctx, 3, "approved"))
	require.NoError(t, repo.Delete(ctx, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeleteMissing(t *testing.T) {
	pool, _, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := repository.NewEventRepository(pool)

	mock.ExpectExec("DELETE FROM events").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3)
	assert.True(t, utils.IsNotFoundError(err))
}
