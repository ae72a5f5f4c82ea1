package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/metrics"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/utils"
)

// AuthService handles registration, login and the current-user lookup
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService auth.TokenIssuer
	metrics    *metrics.Metrics
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtService auth.TokenIssuer, m *metrics.Metrics) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		metrics:    m,
	}
}

// RegisterUser validates the request and creates a user account.
// The admin role can never be obtained here.
func (s *AuthService) RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, utils.NewBadRequestError(constants.MsgAllFieldsRequired)
	}

	user := models.NewUser(req.FirstName, req.LastName, req.Email, req.Role)

	if len(user.FirstName) > constants.MaxNameLength || len(user.LastName) > constants.MaxNameLength {
		return nil, utils.NewBadRequestError(constants.MsgNameTooLong)
	}

	if !utils.IsValidEmail(user.Email) {
		return nil, utils.NewBadRequestError(constants.MsgInvalidEmailFormat)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		s.metrics.ObserveAuth("register", false)
		utils.LogAuth("register_failed", "0", user.Email, false, "email in use")
		return nil, utils.NewDuplicateError(constants.MsgEmailInUse, "email")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = passwordHash

	// A concurrent registration can still win the race; the unique key
	// turns that into the same duplicate error.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if utils.IsDuplicateError(err) {
			s.metrics.ObserveAuth("register", false)
		}
		return nil, err
	}

	s.metrics.ObserveAuth("register", true)
	utils.LogAuth("register_success", utils.FormatID(user.ID), user.Email, true, "")

	return user, nil
}

// AuthenticateUser checks credentials and issues a token.
// Unknown emails and wrong passwords produce the same error after the same
// amount of bcrypt work.
func (s *AuthService) AuthenticateUser(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	email := utils.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, utils.NewBadRequestError(constants.MsgLoginFieldsRequired)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !utils.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		auth.CompareDummy(req.Password)
		s.metrics.ObserveAuth("login", false)
		utils.LogAuth("login_failed", "0", email, false, "user not found")
		return nil, utils.NewInvalidCredentialsError()
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.metrics.ObserveAuth("login", false)
		utils.LogAuth("login_failed", utils.FormatID(user.ID), email, false, "invalid password")
		return nil, utils.NewInvalidCredentialsError()
	}

	token, _, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.ObserveAuth("login", true)
	utils.LogAuth("login_success", utils.FormatID(user.ID), email, true, "")

	return &models.AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: s.jwtService.ExpiresIn(),
	}, nil
}
