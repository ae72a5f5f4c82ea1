package migrations

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_WellFormed(t *testing.T) {
	files, err := fs.Glob(embedded, "sql/*.sql")
	require.NoError(t, err)
	require.Len(t, files, len(RequiredTables))

	for i, file := range files {
		raw, err := fs.ReadFile(embedded, file)
		require.NoError(t, err)
		content := string(raw)

		assert.Contains(t, content, "-- +goose Up", file)
		assert.Contains(t, content, "-- +goose Down", file)
		assert.Contains(t, content, "CREATE TABLE IF NOT EXISTS "+RequiredTables[i], file)
		assert.Contains(t, content, "DROP TABLE IF EXISTS "+RequiredTables[i], file)
		assert.Contains(t, content, "ENGINE = InnoDB", file)
	}
}

func TestEmbeddedMigrations_Schema(t *testing.T) {
	read := func(name string) string {
		raw, err := fs.ReadFile(embedded, "sql/"+name)
		require.NoError(t, err)
		return string(raw)
	}

	users := read("00001_create_users.sql")
	assert.Contains(t, users, "UNIQUE KEY uq_users_email (email)")
	assert.Contains(t, users, "ENUM('user', 'organizer', 'admin')")

	resets := read("00002_create_password_reset_codes.sql")
	assert.Contains(t, resets, "used_at    DATETIME(3)     NULL")
	assert.Contains(t, resets, "REFERENCES users (id) ON DELETE CASCADE")

	events := read("00004_create_events.sql")
	assert.Contains(t, events, "ENUM('pending', 'approved', 'declined') NOT NULL DEFAULT 'pending'")
	assert.True(t, strings.Contains(events, "lat           DECIMAL(10, 7)  NULL"))
}

func TestNewMigrator(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		m, err := NewMigrator(nil)
		assert.Error(t, err)
		assert.Nil(t, m)
	})

	t.Run("loads sources in order", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		m, err := NewMigrator(db)
		require.NoError(t, err)

		sources := m.Sources()
		require.Len(t, sources, len(RequiredTables))
		for i, source := range sources {
			assert.Equal(t, int64(i+1), source.Version)
			assert.Contains(t, source.Name, RequiredTables[i])
		}
	})
}

func TestMissingTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("users").
			AddRow("EVENTS").
			AddRow("goose_db_version"))

	missing, err := MissingTables(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"password_reset_codes", "zip_locations", "rsvps"}, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingTables_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT table_name").WillReturnError(assert.AnError)

	_, err = MissingTables(context.Background(), db)
	assert.ErrorIs(t, err, assert.AnError)
}
