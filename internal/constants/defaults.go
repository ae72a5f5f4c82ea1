// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallback configuration settings and establish
// boundaries for resource usage.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 5000

	// DefaultDBHost is the default MySQL host.
	DefaultDBHost = "localhost"

	// DefaultDBPort is the default MySQL port.
	DefaultDBPort = 3306

	// DefaultDBUser is the default MySQL user.
	DefaultDBUser = "root"

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default number of idle database connections kept open.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultAppName is used for log fields, telemetry and the JWT issuer.
	DefaultAppName = "eventure-api"

	// DefaultJWTIssuer is the issuer claim placed in every token.
	DefaultJWTIssuer = "eventure-api"

	// DefaultMailFrom is the sender used when none is configured.
	DefaultMailFromName    = "Eventure"
	DefaultMailFromAddress = "no-reply@eventure.com"

	// DefaultConfigPath is where the YAML configuration is looked up.
	DefaultConfigPath = "./configs/config.yaml"
)

// DefaultAllowedOrigins are the browser origins allowed by CORS when none are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:5174"}

// CORS preflight settings.
var (
	CORSAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	CORSAllowedHeaders = []string{"Accept", "Authorization", "Content-Type", HeaderXRequestID}
	CORSExposedHeaders = []string{HeaderXRequestID}
)

// CORSMaxAge is how long browsers may cache a preflight response, in seconds.
const CORSMaxAge = 300

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Size Limits
const (
	// MaxRequestBodySize is the maximum size in bytes for JSON request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Password hashing
const (
	// BcryptCost is the work factor for password and reset-code hashes.
	BcryptCost = 10
)

// Event listing limits
const (
	// MaxEventListLimit caps the limit query parameter on public listings.
	MaxEventListLimit = 200

	// MetersPerMile converts radius miles into ST_Distance_Sphere meters.
	MetersPerMile = 1609.34
)

// ValidRadiusMiles are the only radius values accepted by the zip search.
var ValidRadiusMiles = []int{5, 10, 15, 20, 25, 30, 40, 50}

// Mailer modes reported by the dev test endpoint.
const (
	MailModeSendGrid = "sendgrid"
	MailModeFallback = "fallback"
)
