package models

import (
	"database/sql"
	"time"
)

// PasswordResetCode is one issued reset code. Only the bcrypt hash of the
// code is stored. Rows are kept after use.
type PasswordResetCode struct {
	ID        uint64       `db:"id"`
	UserID    uint64       `db:"user_id"`
	CodeHash  string       `db:"code_hash"`
	ExpiresAt time.Time    `db:"expires_at"`
	UsedAt    sql.NullTime `db:"used_at"`
	CreatedAt time.Time    `db:"created_at"`
}

// IsActive reports whether the code can still be consumed at now.
func (c *PasswordResetCode) IsActive(now time.Time) bool {
	return !c.UsedAt.Valid && c.ExpiresAt.After(now)
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyResetCodeRequest is the body of POST /api/auth/verify-reset-code.
type VerifyResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResetPasswordRequest is the body of both reset endpoints.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// VerifyResetCodeResponse is returned when a code checks out.
type VerifyResetCodeResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
