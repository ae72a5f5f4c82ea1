package models

import (
	"strings"
	"time"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/utils"
)

// User represents a registered account.
// The email is always stored in normalized form.
type User struct {
	ID           uint64    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a User with normalized email, trimmed names and a
// self-registration role. The password hash is set by the caller.
func NewUser(firstName, lastName, email, role string) *User {
	now := time.Now().UTC()
	return &User{
		Email:     utils.NormalizeEmail(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      RegistrationRole(role),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        utils.FormatID(u.ID),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// FullName joins the first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PublicUser is the serialized user. The id is a string.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// RegistrationRole maps a requested role to one that self-registration may grant.
// Only an exact "organizer" is honored; anything else, admin included, becomes user.
func RegistrationRole(requested string) string {
	switch requested {
	case constants.RoleOrganizer:
		return constants.RoleOrganizer
	default:
		return constants.RoleUser
	}
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

// MeResponse is returned by GET /api/auth/me.
type MeResponse struct {
	User PublicUser `json:"user"`
}

// AuthResult is what the auth service hands back after a login.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresIn time.Duration
}
