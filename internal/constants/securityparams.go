package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	EmailContextKey     = "email"
	PrincipalContextKey = "principal"
	RequestIDContextKey = "request_id"
)

// Roles
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Password and Reset Code Validation
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything beyond 72 bytes
	MaxNameLength     = 100
	MaxEmailLength    = 255
	ResetCodeDigits   = 6
)

// Cookie Names
const (
	AuthTokenCookie = "token"
)

// Token prefixes
const (
	BearerTokenPrefix = "Bearer "
)
