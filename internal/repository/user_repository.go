package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// UserRepository defines methods for interacting with user data.
// Emails passed in must already be normalized.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	LockByEmailTx(ctx context.Context, tx *sql.Tx, email string) (*models.User, error)
	UpdatePasswordTx(ctx context.Context, tx *sql.Tx, id uint64, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}

// MySQLUserRepository is a MySQL implementation of UserRepository
type MySQLUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

const userColumns = "id, email, password_hash, first_name, last_name, role, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create adds a new user to the database
func (r *MySQLUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (email, password_hash, first_name, last_name, role, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{user.Email, constants.LogRedactedValue, user.FirstName, user.LastName, user.Role, user.CreatedAt, user.UpdatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if utils.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError(constants.MsgEmailInUse, constants.ColumnEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new user id: %w", err)
	}
	user.ID = uint64(id)

	log.Info().
		Uint64("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Str("role", user.Role).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	startTime := time.Now()

	query := "SELECT " + userColumns + " FROM users WHERE id = ?"

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by normalized email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	startTime := time.Now()

	query := "SELECT " + userColumns + " FROM users WHERE email = ?"

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", utils.MaskEmail(email))
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks whether an account already uses the email
func (r *MySQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	startTime := time.Now()

	query := "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)"

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// LockByEmailTx loads the user and holds its row lock until tx ends.
// Concurrent reset requests for the same account queue behind it.
func (r *MySQLUserRepository) LockByEmailTx(ctx context.Context, tx *sql.Tx, email string) (*models.User, error) {
	startTime := time.Now()

	query := "SELECT " + userColumns + " FROM users WHERE email = ? FOR UPDATE"

	user, err := scanUser(tx.QueryRowContext(ctx, query, email))

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", utils.MaskEmail(email))
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	return user, nil
}

// UpdatePasswordTx replaces the password hash as part of tx
func (r *MySQLUserRepository) UpdatePasswordTx(ctx context.Context, tx *sql.Tx, id uint64, passwordHash string) error {
	startTime := time.Now()

	query := "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?"
	now := time.Now().UTC()

	result, err := tx.ExecContext(ctx, query, passwordHash, now, id)

	utils.LogDBQuery(query, []interface{}{passwordHash, now, id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	return nil
}

// Count returns the number of registered users
func (r *MySQLUserRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM users")
}

func countRows(ctx context.Context, db database.Executor, query string, args ...interface{}) (int64, error) {
	startTime := time.Now()

	var count int64
	err := db.QueryRowContext(ctx, query, args...).Scan(&count)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// ignoreNoRows keeps expected misses out of the error log
func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
