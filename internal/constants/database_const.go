// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines table names, column names and enumerated
// column values used in SQL.
package constants

// Table Names
const (
	TableUsers              = "users"
	TablePasswordResetCodes = "password_reset_codes"
	TableEvents             = "events"
	TableZipLocations       = "zip_locations"
	TableRSVPs              = "rsvps"
)

// Column Names
const (
	ColumnEmail        = "email"
	ColumnPasswordHash = "password_hash"
	ColumnCodeHash     = "code_hash"
	ColumnZipCode      = "zip_code"
)

// Event statuses
const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusDeclined = "declined"
)

// RSVP statuses
const (
	RSVPStatusGoing = "going"
)

// MySQL error numbers
const (
	MySQLErrDuplicateEntry = 1062
	MySQLErrForeignKey     = 1452
)
