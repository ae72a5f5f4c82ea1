// Package scripts provides utility scripts for database and system management.
//
// It creates administrator accounts, which self-registration can never grant,
// and loads the ZIP code centroids used by the radius search.
package scripts

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/utils"
)

// AdminSeed is the input of CreateAdmin.
type AdminSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Seeder handles database seeding.
type Seeder struct {
	db    *database.Pool
	users repository.UserRepository
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool) *Seeder {
	return &Seeder{
		db:    db,
		users: repository.NewUserRepository(db),
	}
}

// CreateAdmin creates an account with the admin role.
// The same validation as registration applies, and an existing email is a conflict.
func (s *Seeder) CreateAdmin(ctx context.Context, seed AdminSeed) (*models.User, error) {
	email := utils.NormalizeEmail(seed.Email)
	if email == "" || seed.Password == "" || strings.TrimSpace(seed.FirstName) == "" || strings.TrimSpace(seed.LastName) == "" {
		return nil, utils.NewBadRequestError(constants.MsgAllFieldsRequired)
	}
	if !utils.IsValidEmail(email) {
		return nil, utils.NewValidationError(constants.ColumnEmail, constants.MsgInvalidEmailFormat)
	}
	if err := utils.ValidatePassword(seed.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.NewDuplicateError(constants.MsgEmailInUse, constants.ColumnEmail)
	}

	passwordHash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(seed.FirstName, seed.LastName, email, "")
	user.Role = constants.RoleAdmin
	user.PasswordHash = passwordHash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Uint64("user_id", user.ID).Str("email", utils.MaskEmail(user.Email)).Msg("Admin account created")
	return user, nil
}

// ImportZipLocations loads "zip_code,lat,lng" rows into zip_locations in one
// transaction. A header row is skipped and existing codes are updated.
//
// Returns:
//   - the number of rows written
func (s *Seeder) ImportZipLocations(ctx context.Context, r io.Reader) (int, error) {
	locations, err := parseZipLocations(r)
	if err != nil {
		return 0, err
	}
	if len(locations) == 0 {
		return 0, nil
	}

	start := time.Now()
	query := `
		INSERT INTO zip_locations (zip_code, lat, lng) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE lat = VALUES(lat), lng = VALUES(lng)
	`

	err = s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare zip insert: %w", err)
		}
		defer stmt.Close()

		for _, location := range locations {
			if _, err := stmt.ExecContext(ctx, location.ZipCode, location.Lat, location.Lng); err != nil {
				return fmt.Errorf("failed to insert zip %s: %w", location.ZipCode, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Int("rows", len(locations)).
		Dur("duration", time.Since(start)).
		Msg("Imported zip locations")
	return len(locations), nil
}

func parseZipLocations(r io.Reader) ([]models.ZipLocation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var locations []models.ZipLocation
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), constants.ColumnZipCode) {
			continue
		}

		zip := strings.TrimSpace(record[0])
		if zip == "" {
			return nil, fmt.Errorf("line %d: empty zip code", line)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("line %d: invalid latitude %q", line, record[1])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || lng < -180 || lng > 180 {
			return nil, fmt.Errorf("line %d: invalid longitude %q", line, record[2])
		}

		locations = append(locations, models.ZipLocation{ZipCode: zip, Lat: lat, Lng: lng})
	}
	return locations, nil
}
