// Package handlers provides HTTP request handlers for the Eventure API.
package handlers

import (
	"context"

	"github.com/eventure/eventure-api/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
// This interface is used by the auth handlers to interact with the authentication business logic
// without being tightly coupled to the implementation.
type AuthServiceInterface interface {
	// RegisterUser creates an account from a registration request.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - req: Registration data including names, email, password and an optional role
	//
	// Returns:
	//   - The newly created user if successful
	//   - An error if registration fails (e.g., missing fields or an email already in use)
	RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)

	// AuthenticateUser checks credentials and issues a token.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - req: Email and password
	//
	// Returns:
	//   - The authenticated user, the signed token and its lifetime
	//   - An error if authentication fails. Unknown email and wrong password fail identically.
	AuthenticateUser(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
}

// PasswordResetServiceInterface defines the methods required from the password reset service.
type PasswordResetServiceInterface interface {
	// ForgotPassword issues and mails a reset code when the account exists.
	// The returned error is only logged; the client always gets the same answer.
	ForgotPassword(ctx context.Context, email string) error

	// VerifyResetCode checks a code without consuming it.
	VerifyResetCode(ctx context.Context, email, code string) error

	// ResetPassword consumes a code and sets a new password.
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}
