package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// AdminHandler serves the moderation routes. Every route is admin only.
type AdminHandler struct {
	adminService AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService AdminServiceInterface) *AdminHandler {
	if adminService == nil {
		panic("adminService cannot be nil")
	}
	return &AdminHandler{adminService: adminService}
}

// Stats returns the dashboard counters
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute admin stats")
		utils.Error(w, http.StatusInternalServerError, constants.CodeInternalError, constants.MsgFetchStatsFailed, nil)
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

// Events lists every event with organizer name and RSVP count
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.adminService.ListEvents(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events for moderation")
		utils.Error(w, http.StatusInternalServerError, constants.CodeInternalError, constants.MsgFetchEventsFailed, nil)
		return
	}
	if events == nil {
		events = []*models.AdminEvent{}
	}

	utils.JSON(w, http.StatusOK, events)
}

// Approve marks an event approved
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.adminService.Approve, constants.MsgEventApproved)
}

// Decline marks an event declined
func (h *AdminHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.adminService.Decline, constants.MsgEventDeclined)
}

// Delete removes an event
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.adminService.Delete, constants.MsgEventDeleted)
}

func (h *AdminHandler) moderate(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, adminID, eventID uint64) error,
	success string,
) {
	eventID, ok := utils.ParseID(chi.URLParam(r, constants.ParamID))
	if !ok {
		utils.BadRequest(w, constants.MsgInvalidEventID, nil)
		return
	}

	adminID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := action(r.Context(), adminID, eventID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, success)
}
