package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// ZipRepository resolves ZIP codes to coordinates
type ZipRepository interface {
	// Lookup returns the centroid of zip, or a not found error when it is unknown.
	Lookup(ctx context.Context, zip string) (*models.ZipLocation, error)
}

// MySQLZipRepository reads the zip_locations table
type MySQLZipRepository struct {
	db *database.Pool
}

// NewZipRepository creates a new ZipRepository
func NewZipRepository(db *database.Pool) ZipRepository {
	return &MySQLZipRepository{db: db}
}

// Lookup resolves a ZIP code
func (r *MySQLZipRepository) Lookup(ctx context.Context, zip string) (*models.ZipLocation, error) {
	startTime := time.Now()

	query := "SELECT zip_code, lat, lng FROM zip_locations WHERE zip_code = ? LIMIT 1"

	location := &models.ZipLocation{}
	err := r.db.QueryRowContext(ctx, query, zip).Scan(&location.ZipCode, &location.Lat, &location.Lng)

	utils.LogDBQuery(query, []interface{}{zip}, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("ZIP code", zip)
		}
		return nil, fmt.Errorf("failed to look up zip code: %w", err)
	}
	return location, nil
}
