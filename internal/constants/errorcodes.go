// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file holds the user-facing messages. Messages on the login
// and password reset paths are deliberately identical across failure causes.
package constants

// Authentication messages
const (
	MsgAuthRequired        = "Authentication required"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgInvalidToken        = "Invalid or expired token"
	MsgUserNotFound        = "User not found"
	MsgInsufficientRole    = "Insufficient permissions"
	MsgAllFieldsRequired   = "All fields are required"
	MsgLoginFieldsRequired = "Email and password are required"
	MsgInvalidEmailFormat  = "Invalid email format"
	MsgNameTooLong         = "Names must be at most 100 characters"
	MsgPasswordTooShort    = "Password must be at least 8 characters"
	MsgPasswordTooLong     = "Password must be at most 72 characters"
	MsgEmailInUse          = "Email already in use"
	MsgRegistered          = "Registered"
	MsgLoggedIn            = "Logged in"
	MsgLoggedOut           = "Logged out"
)

// Password reset messages
const (
	MsgForgotPasswordGeneric = "If an account exists for that email, a reset code has been sent."
	MsgInvalidResetCode      = "Invalid or expired code"
	MsgResetCodeVerified     = "Code verified"
	MsgPasswordReset         = "Password has been reset"
)

// Event messages
const (
	MsgEventNotFound       = "Event not found"
	MsgInvalidEventID      = "Invalid event ID"
	MsgEventSubmitted      = "Event submitted for approval"
	MsgEventApproved       = "Event approved successfully"
	MsgEventDeclined       = "Event declined successfully"
	MsgEventDeleted        = "Event deleted successfully"
	MsgFetchEventsFailed   = "Failed to fetch events"
	MsgFetchStatsFailed    = "Failed to fetch admin statistics"
	MsgEventEndBeforeStart = "End time must not be before start time"
)

// Generic messages
const (
	MsgInternalServerError = "An internal server error occurred"
	MsgResourceNotFound    = "Resource not found"
	MsgNotFound            = "Not found"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgRequestBodyTooLarge = "Request body too large"
	MsgEmptyRequestBody    = "Request body must not be empty"
	MsgMalformedJSON       = "Request body contains badly-formed JSON"
	MsgTooManyRequests     = "Too many requests, please try again later"
	MsgServiceUnhealthy    = "Service is not healthy"
	MsgMissingRecipient    = "Query parameter 'to' is required"
)

// Log categories and events
const (
	LogCategoryAuth  = "auth"
	LogEventLogin    = "Authentication event"
	LogRedactedValue = "[REDACTED]"
)
