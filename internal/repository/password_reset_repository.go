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

// ErrNoActiveCode is returned when a user has no consumable reset code.
var ErrNoActiveCode = errors.New("no active reset code")

// PasswordResetRepository stores hashed reset codes.
// Every time comparison uses the now supplied by the caller.
type PasswordResetRepository interface {
	HasRecentActiveTx(ctx context.Context, tx *sql.Tx, userID uint64, since, now time.Time) (bool, error)
	CreateTx(ctx context.Context, tx *sql.Tx, code *models.PasswordResetCode) error
	FindLatestActive(ctx context.Context, userID uint64, now time.Time) (*models.PasswordResetCode, error)
	LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*models.PasswordResetCode, error)
	MarkUsedTx(ctx context.Context, tx *sql.Tx, id uint64, usedAt time.Time) error
}

// MySQLPasswordResetRepository handles database operations for reset codes.
type MySQLPasswordResetRepository struct {
	db *database.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db *database.Pool) PasswordResetRepository {
	return &MySQLPasswordResetRepository{db: db}
}

const resetCodeColumns = "id, user_id, code_hash, expires_at, used_at, created_at"

func scanResetCode(row rowScanner) (*models.PasswordResetCode, error) {
	code := &models.PasswordResetCode{}
	if err := row.Scan(&code.ID, &code.UserID, &code.CodeHash, &code.ExpiresAt, &code.UsedAt, &code.CreatedAt); err != nil {
		return nil, err
	}
	return code, nil
}

// HasRecentActiveTx reports whether an unused, unexpired code was created after since.
// Must run after the user row is locked in the same tx.
func (r *MySQLPasswordResetRepository) HasRecentActiveTx(ctx context.Context, tx *sql.Tx, userID uint64, since, now time.Time) (bool, error) {
	startTime := time.Now()

	query := `
		SELECT EXISTS(
			SELECT 1 FROM password_reset_codes
			WHERE user_id = ? AND used_at IS NULL AND expires_at > ? AND created_at > ?
		)`

	var exists bool
	err := tx.QueryRowContext(ctx, query, userID, now, since).Scan(&exists)

	utils.LogDBQuery(query, []interface{}{userID, now, since}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check recent reset codes: %w", err)
	}
	return exists, nil
}

// CreateTx stores a new hashed code.
func (r *MySQLPasswordResetRepository) CreateTx(ctx context.Context, tx *sql.Tx, code *models.PasswordResetCode) error {
	startTime := time.Now()

	query := `
		INSERT INTO password_reset_codes (user_id, code_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, code.UserID, code.CodeHash, code.ExpiresAt, code.CreatedAt)

	utils.LogDBQuery(query, []interface{}{code.UserID, code.CodeHash, code.ExpiresAt, code.CreatedAt}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create password reset code: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read reset code id: %w", err)
	}
	code.ID = uint64(id)
	return nil
}

// FindLatestActive returns the newest consumable code for the user.
func (r *MySQLPasswordResetRepository) FindLatestActive(ctx context.Context, userID uint64, now time.Time) (*models.PasswordResetCode, error) {
	startTime := time.Now()

	query := "SELECT " + resetCodeColumns + `
		FROM password_reset_codes
		WHERE user_id = ? AND used_at IS NULL AND expires_at > ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	code, err := scanResetCode(r.db.QueryRowContext(ctx, query, userID, now))

	utils.LogDBQuery(query, []interface{}{userID, now}, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveCode
		}
		return nil, fmt.Errorf("failed to find reset code: %w", err)
	}
	return code, nil
}

// LockByIDTx re-reads a code under a row lock so its state can be re-checked.
func (r *MySQLPasswordResetRepository) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*models.PasswordResetCode, error) {
	startTime := time.Now()

	query := "SELECT " + resetCodeColumns + " FROM password_reset_codes WHERE id = ? FOR UPDATE"

	code, err := scanResetCode(tx.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveCode
		}
		return nil, fmt.Errorf("failed to lock reset code: %w", err)
	}
	return code, nil
}

// MarkUsedTx consumes the code. A code that was already used is not touched.
func (r *MySQLPasswordResetRepository) MarkUsedTx(ctx context.Context, tx *sql.Tx, id uint64, usedAt time.Time) error {
	startTime := time.Now()

	query := "UPDATE password_reset_codes SET used_at = ? WHERE id = ? AND used_at IS NULL"

	result, err := tx.ExecContext(ctx, query, usedAt, id)

	utils.LogDBQuery(query, []interface{}{usedAt, id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to mark reset code used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoActiveCode
	}
	return nil
}
