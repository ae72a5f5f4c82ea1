package constants

// Base Routes
const (
	APIBasePath     = "/api"
	HealthPath      = "/health"
	HealthReadyPath = "/health/ready"
	MetricsPath     = "/metrics"
	VersionPath     = "/version"
)

// Authentication Routes
const (
	AuthBasePath                  = "/auth"
	AuthRegisterPath              = "/register"
	AuthLoginPath                 = "/login"
	AuthLogoutPath                = "/logout"
	AuthMePath                    = "/me"
	AuthForgotPasswordPath        = "/forgot-password"
	AuthVerifyResetCodePath       = "/verify-reset-code"
	AuthResetPasswordPath         = "/reset-password"
	AuthResetPasswordWithCodePath = "/reset-password-with-code"
)

// Event Routes
const (
	EventsBasePath  = "/events"
	EventsMinePath  = "/mine"
	EventDetailPath = "/{id}"
)

// Admin Routes
const (
	AdminBasePath         = "/admin"
	AdminStatsPath        = "/stats"
	AdminEventsPath       = "/events"
	AdminEventDetailPath  = "/events/{id}"
	AdminEventApprovePath = "/events/{id}/approve"
	AdminEventDeclinePath = "/events/{id}/decline"
)

// Development Routes
const (
	DevTestEmailPath = "/dev/test-email"
)

// URL Parameters
const (
	ParamID = "id"
)

// Query Parameters
const (
	QueryParamLimit    = "limit"
	QueryParamZip      = "zip"
	QueryParamRadius   = "radius"
	QueryParamCategory = "category"
	QueryParamTo       = "to"
)
