package handlers

import (
	"net/http"
	"time"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService  AuthServiceInterface
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
// secureCookie marks the token cookie Secure, which the server does in production.
func NewAuthHandler(authService AuthServiceInterface, secureCookie bool) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.authService.RegisterUser(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, models.RegisterResponse{
		Message: constants.MsgRegistered,
		User:    user.Public(),
	})
}

// Login handles user authentication.
// The token is returned in the body and also set as an HTTP-only cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.authService.AuthenticateUser(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.AuthTokenCookie,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(result.ExpiresIn.Seconds()),
		Expires:  time.Now().Add(result.ExpiresIn),
	})

	utils.JSON(w, http.StatusOK, models.LoginResponse{
		Message: constants.MsgLoggedIn,
		Token:   result.Token,
		User:    result.User.Public(),
	})
}

// Logout clears the token cookie. Tokens are stateless, so nothing is revoked server side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AuthTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})

	utils.Message(w, http.StatusOK, constants.MsgLoggedOut)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.GetPrincipal(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	utils.JSON(w, http.StatusOK, models.MeResponse{User: principal.Public()})
}
