package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/service"
	"github.com/eventure/eventure-api/internal/utils"
)

// TestEmailResponse reports the outcome of a test email.
type TestEmailResponse struct {
	OK      bool   `json:"ok"`
	Mode    string `json:"mode"`
	Message string `json:"message"`
}

// DevHandler serves development-only helpers.
type DevHandler struct {
	mailer  service.Mailer
	enabled bool
}

// NewDevHandler creates a new DevHandler. When enabled is false every route answers 404.
func NewDevHandler(mailer service.Mailer, enabled bool) *DevHandler {
	if mailer == nil {
		panic("mailer cannot be nil")
	}
	return &DevHandler{mailer: mailer, enabled: enabled}
}

// TestEmail sends a fixed message to the "to" query parameter
func (h *DevHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.NotFound(w, constants.MsgNotFound)
		return
	}

	to := strings.TrimSpace(r.URL.Query().Get(constants.QueryParamTo))
	if to == "" {
		utils.BadRequest(w, constants.MsgMissingRecipient, nil)
		return
	}

	mode := h.mailer.Mode()
	if err := service.SendTestEmail(r.Context(), h.mailer, to); err != nil {
		log.Error().Err(err).Str("mode", mode).Msg("Test email failed")
		utils.JSON(w, http.StatusInternalServerError, TestEmailResponse{
			OK:      false,
			Mode:    mode,
			Message: "Failed to send email",
		})
		return
	}

	message := "Email logged to console (no mail transport configured)"
	if mode == constants.MailModeSendGrid {
		message = "Email sent successfully via SendGrid"
	}
	utils.JSON(w, http.StatusOK, TestEmailResponse{OK: true, Mode: mode, Message: message})
}
