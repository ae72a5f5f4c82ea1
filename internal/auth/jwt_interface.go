package auth

import (
	"time"

	"github.com/eventure/eventure-api/internal/models"
)

// JWTValidator defines the interface for JWT validation
type JWTValidator interface {
	// ValidateToken validates a JWT token and returns its claims if valid
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// TokenIssuer issues tokens for authenticated users
type TokenIssuer interface {
	// GenerateToken returns a signed token and its ID
	GenerateToken(user *models.User) (string, string, error)

	// ExpiresIn is the lifetime of issued tokens
	ExpiresIn() time.Duration
}

var (
	_ JWTValidator = (*JWTService)(nil)
	_ TokenIssuer  = (*JWTService)(nil)
)
