package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/metrics"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/utils"
)

// PasswordResetService issues and consumes one-time reset codes.
//
// A user moves from no active code, to code issued, to (optionally) code
// verified, to code consumed. Verification never changes state. Every
// failure the client can observe is the same invalid code error, and every
// outcome of a request does the same amount of bcrypt work. Reset emails are
// delivered after the request returns.
type PasswordResetService struct {
	db        database.Transactor
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	mailer    Mailer
	metrics   *metrics.Metrics

	codeTTL      time.Duration
	resendWindow time.Duration

	now          func() time.Time
	generateCode func() (string, error)
	hashCode     func(code string) (string, error)
	checkCode    func(hash, code string) bool
	compareDummy func(code string) bool
	deliver      func(task func())

	deliveries sync.WaitGroup
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	db database.Transactor,
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	mailer Mailer,
	cfg *config.PasswordResetSettings,
	m *metrics.Metrics,
) *PasswordResetService {
	codeTTL, resendWindow := constants.ResetCodeTTL, constants.ResetCodeResendWindow
	if cfg != nil {
		if cfg.CodeTTL > 0 {
			codeTTL = cfg.CodeTTL
		}
		if cfg.ResendWindow > 0 {
			resendWindow = cfg.ResendWindow
		}
	}

	s := &PasswordResetService{
		db:           db,
		userRepo:     userRepo,
		resetRepo:    resetRepo,
		mailer:       mailer,
		metrics:      m,
		codeTTL:      codeTTL,
		resendWindow: resendWindow,
		now:          func() time.Time { return time.Now().UTC() },
		generateCode: auth.GenerateResetCode,
		hashCode:     auth.HashPassword,
		checkCode:    auth.CheckPassword,
		compareDummy: auth.CompareDummy,
	}
	s.deliver = s.deliverAsync
	return s
}

// Wait blocks until every pending reset email has been handed to the mailer.
func (s *PasswordResetService) Wait() {
	s.deliveries.Wait()
}

func (s *PasswordResetService) deliverAsync(task func()) {
	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()
		task()
	}()
}

// ForgotPassword issues and mails a code when the account exists and no
// active code was issued within the resend window. Unknown and suppressed
// requests hash a throwaway code so all outcomes cost one bcrypt hash.
// Callers must answer the client identically whatever the outcome; the
// returned error is for logging.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, rawEmail string) error {
	email := utils.NormalizeEmail(rawEmail)
	if !utils.IsValidEmail(email) {
		return nil
	}

	var (
		recipient *models.User
		code      string
	)

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		// The row lock serializes concurrent requests for the same user,
		// so the recent-code check and the insert cannot interleave.
		user, err := s.userRepo.LockByEmailTx(ctx, tx, email)
		if err != nil {
			if utils.IsNotFoundError(err) {
				return nil
			}
			return err
		}

		now := s.now()
		recent, err := s.resetRepo.HasRecentActiveTx(ctx, tx, user.ID, now.Add(-s.resendWindow), now)
		if err != nil {
			return err
		}
		if recent {
			log.Info().
				Str("category", constants.LogCategoryAuth).
				Uint64("user_id", user.ID).
				Msg("Reset code recently issued, not issuing another")
			return nil
		}

		plain, err := s.generateCode()
		if err != nil {
			return err
		}
		codeHash, err := s.hashCode(plain)
		if err != nil {
			return err
		}

		if err := s.resetRepo.CreateTx(ctx, tx, &models.PasswordResetCode{
			UserID:    user.ID,
			CodeHash:  codeHash,
			ExpiresAt: now.Add(s.codeTTL),
			CreatedAt: now,
		}); err != nil {
			return err
		}

		recipient, code = user, plain
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to issue reset code: %w", err)
	}
	if recipient == nil {
		s.hashThrowawayCode()
		return nil
	}

	s.metrics.ResetCodeIssued()
	utils.LogAuth("reset_code_issued", utils.FormatID(recipient.ID), recipient.Email, true, "")

	msg := resetCodeMessage(recipient.Email, recipient.FullName(), code, s.codeTTL)
	userID := recipient.ID
	mailCtx := context.WithoutCancel(ctx)
	s.deliver(func() {
		sendCtx, cancel := context.WithTimeout(mailCtx, constants.ResetMailTimeout)
		defer cancel()

		if err := s.mailer.Send(sendCtx, msg); err != nil {
			log.Error().
				Err(err).
				Str("category", constants.LogCategoryAuth).
				Uint64("user_id", userID).
				Msg("Failed to send reset code")
		}
	})
	return nil
}

// hashThrowawayCode matches the hashing cost of issuing a real code.
func (s *PasswordResetService) hashThrowawayCode() {
	plain, err := s.generateCode()
	if err != nil {
		plain = "000000"
	}
	_, _ = s.hashCode(plain)
}

// VerifyResetCode checks a code without consuming it.
func (s *PasswordResetService) VerifyResetCode(ctx context.Context, rawEmail, code string) error {
	_, _, err := s.matchActiveCode(ctx, rawEmail, code)
	return err
}

// ResetPassword consumes a code and sets a new password. The code is
// re-locked and re-checked inside the transaction, so it can be used once.
func (s *PasswordResetService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	user, active, err := s.matchActiveCode(ctx, req.Email, req.Code)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	err = s.db.Transaction(ctx, func(tx *sql.Tx) error {
		locked, err := s.resetRepo.LockByIDTx(ctx, tx, active.ID)
		if err != nil {
			return err
		}

		now := s.now()
		if !locked.IsActive(now) {
			return repository.ErrNoActiveCode
		}
		if err := s.resetRepo.MarkUsedTx(ctx, tx, locked.ID, now); err != nil {
			return err
		}
		return s.userRepo.UpdatePasswordTx(ctx, tx, user.ID, passwordHash)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveCode) {
			s.logResetFailure(req.Email, "code consumed concurrently")
			return utils.NewInvalidResetCodeError()
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.metrics.ObserveAuth("password_reset", true)
	utils.LogAuth("password_reset", utils.FormatID(user.ID), user.Email, true, "")
	return nil
}

// matchActiveCode finds the user's newest active code and compares it with code.
// Each failure after the shape check costs exactly one bcrypt comparison.
func (s *PasswordResetService) matchActiveCode(ctx context.Context, rawEmail, code string) (*models.User, *models.PasswordResetCode, error) {
	email := utils.NormalizeEmail(rawEmail)
	if email == "" || !utils.IsResetCodeShape(code) {
		return nil, nil, utils.NewInvalidResetCodeError()
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !utils.IsNotFoundError(err) {
			log.Error().Err(err).Msg("Reset code lookup failed")
		}
		s.compareDummy(code)
		s.logResetFailure(email, "unknown email")
		return nil, nil, utils.NewInvalidResetCodeError()
	}

	active, err := s.resetRepo.FindLatestActive(ctx, user.ID, s.now())
	if err != nil {
		if !errors.Is(err, repository.ErrNoActiveCode) {
			log.Error().Err(err).Uint64("user_id", user.ID).Msg("Reset code lookup failed")
		}
		s.compareDummy(code)
		s.logResetFailure(email, "no active code")
		return nil, nil, utils.NewInvalidResetCodeError()
	}

	if !s.checkCode(active.CodeHash, code) {
		s.logResetFailure(email, "code mismatch")
		return nil, nil, utils.NewInvalidResetCodeError()
	}

	return user, active, nil
}

func (s *PasswordResetService) logResetFailure(email, reason string) {
	s.metrics.ObserveAuth("password_reset", false)
	utils.LogAuth("password_reset_failed", "0", email, false, reason)
}
