// Package utils provides utility functions and helpers for common operations
// used throughout the application: email normalization, identifier parsing,
// error inspection and log-safe formatting.
package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/eventure/eventure-api/internal/constants"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases an email address.
// Every write and comparison of an email goes through this function.
//
// Parameters:
//   - email: the raw email as submitted by a client
//
// Returns:
//   - the canonical form used for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether an already normalized email has the
// local@domain.tld shape accepted at registration.
func IsValidEmail(email string) bool {
	return len(email) <= constants.MaxEmailLength && emailPattern.MatchString(email)
}

// ParseID parses a positive numeric identifier from a path segment.
//
// Parameters:
//   - raw: the path value
//
// Returns:
//   - the identifier and true, or zero and false when raw is not a positive integer
func ParseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// FormatID renders a numeric identifier the way the API exposes it.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// IsDuplicateKeyError checks if an error is a MySQL duplicate key error.
//
// Parameters:
//   - err: the error to check, possibly wrapped
//
// Returns:
//   - true if the error is a MySQL duplicate entry error (code 1062), false otherwise
func IsDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == constants.MySQLErrDuplicateEntry
	}
	return false
}

// MaskEmail masks the user part of an email address, showing only the first and last character.
// Used whenever an email address ends up in a log line.
//
// For example: "user@example.com" becomes "u**r@example.com"
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	domain := parts[1]

	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// ContainsInt checks if a slice of ints contains a specific value.
func ContainsInt(slice []int, value int) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
