package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// PasswordResetHandler serves the one-time-code password reset flow.
type PasswordResetHandler struct {
	resetService PasswordResetServiceInterface
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(resetService PasswordResetServiceInterface) *PasswordResetHandler {
	if resetService == nil {
		panic("resetService cannot be nil")
	}
	return &PasswordResetHandler{resetService: resetService}
}

// ForgotPassword starts a reset. The response is the same whether or not the
// account exists and whether or not issuing the code succeeded.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		log.Debug().Err(err).Str("category", constants.LogCategoryAuth).Msg("Unreadable forgot-password body")
		utils.Message(w, http.StatusOK, constants.MsgForgotPasswordGeneric)
		return
	}

	if err := h.resetService.ForgotPassword(r.Context(), req.Email); err != nil {
		log.Error().Err(err).Str("category", constants.LogCategoryAuth).Msg("Forgot password failed")
	}

	utils.Message(w, http.StatusOK, constants.MsgForgotPasswordGeneric)
}

// VerifyResetCode checks a code without consuming it.
func (h *PasswordResetHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyResetCodeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.NewInvalidResetCodeError())
		return
	}

	if err := h.resetService.VerifyResetCode(r.Context(), req.Email, req.Code); err != nil {
		utils.ErrorFromAppError(w, resetError(err))
		return
	}

	utils.JSON(w, http.StatusOK, models.VerifyResetCodeResponse{
		OK:      true,
		Message: constants.MsgResetCodeVerified,
	})
}

// ResetPassword consumes a code and sets the new password.
// It serves both /reset-password and /reset-password-with-code.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.NewInvalidResetCodeError())
		return
	}

	if err := h.resetService.ResetPassword(r.Context(), &req); err != nil {
		utils.ErrorFromAppError(w, resetError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgPasswordReset)
}

// resetError keeps client errors from the reset service and turns anything
// else into the generic invalid code answer.
func resetError(err error) *utils.AppError {
	appErr := utils.ParseError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("category", constants.LogCategoryAuth).Msg("Password reset failed")
		return utils.NewInvalidResetCodeError()
	}
	return appErr
}
