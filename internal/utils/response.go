// Package utils provides utility functions and helpers for the application.
// This file implements the response helpers shared by every handler.
//
// Successful responses are written as the bare payload. Error responses use a
// single shape:
//
//	{"message": "...", "code": "...", "details": {...}}
//
// where code and details are optional. Developer information is only added to
// details when SetExposeDevInfo(true) was called, which the server does
// outside production.
package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string         `json:"message"`           // A human-readable error message
	Code    string         `json:"code,omitempty"`    // A machine-readable error code
	Details map[string]any `json:"details,omitempty"` // Field errors or developer information
}

// MessageBody is the JSON shape of responses that only carry a message.
type MessageBody struct {
	Message string `json:"message"`
}

var exposeDevInfo atomic.Bool

// SetExposeDevInfo controls whether AppError.DevInfo is included in error details.
//
// Parameters:
//   - expose: true to include developer information in error responses
func SetExposeDevInfo(expose bool) {
	exposeDevInfo.Store(expose)
}

// JSON sends a JSON response with the given status code and data.
// The data is written as-is without an envelope.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - data: The data to marshal as the response body
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	SendJSON(w, statusCode, data)
}

// Message sends {"message": message} with the given status code.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - message: The message text
func Message(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, MessageBody{Message: message})
}

// Error sends an error response with the given status code and error information.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - code: A machine-readable error code, omitted when empty
//   - message: A human-readable error message
//   - details: Additional details about the error, omitted when empty
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]any) {
	body := ErrorBody{
		Message: message,
		Code:    code,
	}
	if len(details) > 0 {
		body.Details = details
	}

	SendJSON(w, statusCode, body)
}

// ErrorFromAppError sends an error response based on an AppError.
//
// Parameters:
//   - w: The HTTP response writer
//   - err: The application error
//
// Server errors are logged with their developer information before the
// generic message is written.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	if err == nil {
		err = NewInternalServerError(nil)
	}

	if err.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Int("status", err.StatusCode).
			Str("dev_info", err.DevInfo).
			Msg(err.Message)
	}

	var details map[string]any
	if len(err.Details) > 0 {
		details = make(map[string]any, len(err.Details)+1)
		for k, v := range err.Details {
			details[k] = v
		}
	}
	if err.Field != "" {
		if details == nil {
			details = make(map[string]any, 2)
		}
		details[err.Field] = err.Message
	}
	if err.DevInfo != "" && exposeDevInfo.Load() {
		if details == nil {
			details = make(map[string]any, 1)
		}
		details["dev_info"] = err.DevInfo
	}

	Error(w, err.StatusCode, err.Code(), err.Message, details)
}

// SendJSON is a helper function to send JSON data with proper headers.
// This handles JSON marshaling and error handling for all response types.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - data: The data to marshal to JSON and send
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"message":"Failed to generate response","code":"internal_error"}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// BadRequest sends a 400 Bad Request response with the given message.
//
// Parameters:
//   - w: The HTTP response writer
//   - message: A human-readable error message
//   - details: Additional details about the error
func BadRequest(w http.ResponseWriter, message string, details map[string]any) {
	Error(w, http.StatusBadRequest, constants.CodeBadRequest, message, details)
}

// Unauthorized sends a 401 Unauthorized response with the given message.
//
// Parameters:
//   - w: The HTTP response writer
//   - message: A human-readable error message (falls back to a default message if empty)
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	Error(w, http.StatusUnauthorized, constants.CodeUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response with the given message.
//
// Parameters:
//   - w: The HTTP response writer
//   - message: A human-readable error message (falls back to a default message if empty)
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgInsufficientRole
	}
	Error(w, http.StatusForbidden, constants.CodeForbidden, message, nil)
}

// NotFound sends a 404 Not Found response with the given message.
//
// Parameters:
//   - w: The HTTP response writer
//   - message: A human-readable error message (falls back to a default message if empty)
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgResourceNotFound
	}
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil)
}

// Conflict sends a 409 Conflict response with the given message.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, constants.CodeConflict, message, nil)
}

// TooManyRequests sends a 429 response. Used as the rate limiter's limit handler.
func TooManyRequests(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusTooManyRequests, constants.CodeRateLimited, constants.MsgTooManyRequests, nil)
}

// InternalServerError sends a 500 Internal Server Error response.
//
// Parameters:
//   - w: The HTTP response writer
//   - err: The error that occurred (logged but not exposed to the client)
func InternalServerError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Internal server error")
	Error(w, http.StatusInternalServerError, constants.CodeInternalError, constants.MsgInternalServerError, nil)
}

// GetLimitParam reads the "limit" query parameter.
//
// Parameters:
//   - r: The HTTP request
//   - max: The upper bound applied to valid values
//
// Returns:
//   - The limit and true when the parameter is a positive integer, capped at max
//   - Zero and false when it is absent or invalid, in which case it is ignored
func GetLimitParam(r *http.Request, max int) (int, bool) {
	raw := r.URL.Query().Get(constants.QueryParamLimit)
	if raw == "" {
		return 0, false
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	if limit > max {
		limit = max
	}
	return limit, true
}
