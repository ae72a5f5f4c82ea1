// Package auth provides authentication and authorization functionality for the Eventure API.
package auth

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for storing authenticated user information.
const (
	// PrincipalContextKey stores the *Principal of the authenticated user.
	PrincipalContextKey ContextKey = constants.PrincipalContextKey

	// UserIDContextKey stores the authenticated user ID.
	UserIDContextKey ContextKey = constants.UserIDContextKey
)

// Principal is the authenticated user attached to a request.
type Principal struct {
	ID        uint64
	Email     string
	Role      string
	FirstName string
	LastName  string
}

// NewPrincipal builds a principal from a stored user.
func NewPrincipal(user *models.User) *Principal {
	return &Principal{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// Public returns the client-facing representation of the principal.
func (p *Principal) Public() models.PublicUser {
	return models.PublicUser{
		ID:        utils.FormatID(p.ID),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      p.Role,
	}
}

// HasRole reports whether the principal holds one of roles.
func (p *Principal) HasRole(roles ...string) bool {
	return utils.ContainsString(roles, p.Role)
}

// UserLookup loads the user behind a token subject.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (*models.User, error)
}

// Middleware authenticates requests with JWTs and enforces roles.
type Middleware struct {
	jwtService JWTValidator
	users      UserLookup
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(jwtService JWTValidator, users UserLookup) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		users:      users,
	}
}

// extractToken reads the bearer token first and the auth cookie second.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get(constants.HeaderAuthorization)
	if strings.HasPrefix(authHeader, constants.BearerTokenPrefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, constants.BearerTokenPrefix)); token != "" {
			return token
		}
	}

	cookie, err := r.Cookie(constants.AuthTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Authenticate requires a valid token whose subject still exists and
// stores the principal in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())

		token := extractToken(r)
		if token == "" {
			utils.Unauthorized(w, constants.MsgAuthRequired)
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			log.Debug().
				Err(err).
				Str("request_id", requestID).
				Str("path", r.URL.Path).
				Msg("Token validation failed")
			utils.ErrorFromAppError(w, utils.NewInvalidTokenError())
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if utils.IsNotFoundError(err) {
				utils.Unauthorized(w, constants.MsgUserNotFound)
				return
			}
			utils.ErrorFromAppError(w, utils.NewInternalServerError(err))
			return
		}

		principal := NewPrincipal(user)

		log.Debug().
			Uint64("user_id", principal.ID).
			Str("role", principal.Role).
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("User authenticated")

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// Authorize allows the request through only when the principal holds one of roles.
// It must be composed after Authenticate.
func Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r)
			if !ok {
				utils.Unauthorized(w, constants.MsgAuthRequired)
				return
			}

			if !principal.HasRole(roles...) {
				log.Info().
					Uint64("user_id", principal.ID).
					Str("role", principal.Role).
					Strs("allowed_roles", roles).
					Str("path", r.URL.Path).
					Msg("Access denied")
				utils.Forbidden(w, constants.MsgInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	ctx = context.WithValue(ctx, PrincipalContextKey, principal)
	return context.WithValue(ctx, UserIDContextKey, principal.ID)
}

// GetPrincipal extracts the authenticated principal from the request context.
func GetPrincipal(r *http.Request) (*Principal, bool) {
	principal, ok := r.Context().Value(PrincipalContextKey).(*Principal)
	return principal, ok && principal != nil
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) (uint64, bool) {
	userID, ok := r.Context().Value(UserIDContextKey).(uint64)
	return userID, ok
}
