package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// ErrInvalidSigningMethod is returned when a token is not signed with HMAC.
var ErrInvalidSigningMethod = errors.New("invalid signing method")

// CustomClaims represents the claims in a JWT token.
// The user ID travels as a decimal string, like PublicUser.ID.
type CustomClaims struct {
	UserID uint64 `json:"id,string"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService provides JWT token generation and validation functionality
type JWTService struct {
	Config *config.JWTSettings
}

// NewJWTService creates a new JWTService instance
func NewJWTService(config *config.JWTSettings) *JWTService {
	return &JWTService{
		Config: config,
	}
}

// GetConfig returns the JWT settings, falling back to defaults without a secret.
func (s *JWTService) GetConfig() *config.JWTSettings {
	if s.Config == nil {
		return &config.JWTSettings{
			Expiry: constants.DefaultJWTExpiry,
			Issuer: constants.DefaultJWTIssuer,
		}
	}
	return s.Config
}

// GenerateToken issues an HS256 token for a user.
// It returns the signed token and its unique ID.
func (s *JWTService) GenerateToken(user *models.User) (string, string, error) {
	cfg := s.GetConfig()
	if cfg.Secret == "" {
		return "", "", errors.New("jwt secret is not configured")
	}

	jwtID := uuid.New().String()

	now := time.Now()
	claims := CustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   strconv.FormatUint(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiry)),
			ID:        jwtID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, jwtID, nil
}

// ValidateToken validates a JWT token and returns its claims if valid.
// Every failure, expiry included, is reported as the invalid token error.
func (s *JWTService) ValidateToken(tokenString string) (*CustomClaims, error) {
	cfg := s.GetConfig()

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == 0 {
		return nil, utils.NewInvalidTokenError()
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}

// ExpiresIn returns the lifetime of issued tokens.
func (s *JWTService) ExpiresIn() time.Duration {
	return s.GetConfig().Expiry
}
