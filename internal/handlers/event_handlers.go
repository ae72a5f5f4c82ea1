package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// EventHandler serves the public listing and organizer submissions.
type EventHandler struct {
	eventService EventServiceInterface
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	if eventService == nil {
		panic("eventService cannot be nil")
	}
	return &EventHandler{eventService: eventService}
}

// List returns approved public events.
//
// Query parameters:
//   - limit: positive integer, capped
//   - category: exact category match
//   - zip, radius: radius search in miles around a ZIP centroid
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.EventFilter{
		Category: query.Get(constants.QueryParamCategory),
		Zip:      query.Get(constants.QueryParamZip),
	}
	if limit, ok := utils.GetLimitParam(r, constants.MaxEventListLimit); ok {
		filter.Limit = limit
	}
	if raw := strings.TrimSpace(query.Get(constants.QueryParamRadius)); raw != "" {
		// Anything unparsable stays 0, which no radius search accepts.
		filter.Radius, _ = strconv.Atoi(raw)
	}

	events, err := h.eventService.ListPublic(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events")
		utils.Error(w, http.StatusInternalServerError, constants.CodeInternalError, constants.MsgFetchEventsFailed, nil)
		return
	}

	utils.JSON(w, http.StatusOK, nonNilEvents(events))
}

// Get returns one approved public event. Malformed IDs are reported as not found.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, constants.ParamID))
	if !ok {
		utils.NotFound(w, constants.MsgEventNotFound)
		return
	}

	event, err := h.eventService.GetPublic(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, event)
}

// Create submits an event for moderation on behalf of the caller
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.CreateEventRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	event, err := h.eventService.Create(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, models.CreateEventResponse{
		Message: constants.MsgEventSubmitted,
		Event:   event,
	})
}

// Mine lists the caller's own events in every status
func (h *EventHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	events, err := h.eventService.ListMine(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("Failed to list own events")
		utils.Error(w, http.StatusInternalServerError, constants.CodeInternalError, constants.MsgFetchEventsFailed, nil)
		return
	}

	utils.JSON(w, http.StatusOK, nonNilEvents(events))
}

// nonNilEvents makes an empty result serialize as [] rather than null.
func nonNilEvents(events []*models.Event) []*models.Event {
	if events == nil {
		return []*models.Event{}
	}
	return events
}
