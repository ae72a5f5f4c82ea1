package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout  = 10 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute
)

// Authentication Timeouts
const (
	DefaultJWTExpiry = 24 * time.Hour
)

// Password Reset Timeouts
const (
	// ResetCodeTTL is how long an issued reset code stays consumable.
	ResetCodeTTL = 10 * time.Minute

	// ResetCodeResendWindow suppresses issuing a second code while a fresh one is outstanding.
	ResetCodeResendWindow = 60 * time.Second

	// ResetMailTimeout bounds delivery of a reset email after the request has returned.
	ResetMailTimeout = 30 * time.Second
)

// Background Jobs
const (
	DefaultStatsRefreshInterval = 5 * time.Minute
	DefaultDBProbeInterval      = 1 * time.Minute
	JobTimeout                  = 30 * time.Second
)

// Caching
const (
	DefaultZipCacheTTL = 24 * time.Hour
)

// Rate Limiting
const (
	DefaultAuthRateLimit       = 20
	DefaultAuthRateLimitWindow = 1 * time.Minute
)
