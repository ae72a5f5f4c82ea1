package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/utils"
)

// EventService serves public listings and organizer submissions
type EventService struct {
	eventRepo repository.EventRepository
	zipRepo   repository.ZipRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, zipRepo repository.ZipRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		zipRepo:   zipRepo,
	}
}

// ListPublic returns approved public events.
// A ZIP search with an unsupported radius or an unknown ZIP yields no events.
func (s *EventService) ListPublic(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	filter.Zip = strings.TrimSpace(filter.Zip)
	filter.Category = strings.TrimSpace(filter.Category)

	if filter.Zip == "" {
		return s.eventRepo.ListPublic(ctx, filter, nil, 0)
	}

	if !utils.ContainsInt(constants.ValidRadiusMiles, filter.Radius) {
		return []*models.Event{}, nil
	}

	location, err := s.zipRepo.Lookup(ctx, filter.Zip)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return []*models.Event{}, nil
		}
		return nil, fmt.Errorf("failed to resolve zip code: %w", err)
	}

	center := location.Point()
	radiusMeters := float64(filter.Radius) * constants.MetersPerMile

	return s.eventRepo.ListPublic(ctx, filter, &center, radiusMeters)
}

// GetPublic returns one approved public event
func (s *EventService) GetPublic(ctx context.Context, id uint64) (*models.Event, error) {
	return s.eventRepo.GetPublicByID(ctx, id)
}

// Create validates and stores an event submitted for moderation.
// Coordinates are filled from the ZIP code when it is known.
func (s *EventService) Create(ctx context.Context, creatorID uint64, req *models.CreateEventRequest) (*models.Event, error) {
	req.Normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return nil, utils.NewValidationError("endsAt", constants.MsgEventEndBeforeStart)
	}

	event := req.ToEvent(creatorID)

	if event.ZipCode != nil {
		location, err := s.zipRepo.Lookup(ctx, *event.ZipCode)
		switch {
		case err == nil:
			event.Lat = &location.Lat
			event.Lng = &location.Lng
		case utils.IsNotFoundError(err):
		default:
			log.Warn().
				Err(err).
				Str("zip", *event.ZipCode).
				Msg("Zip lookup failed, storing event without coordinates")
		}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListMine returns events created by a user in any status
func (s *EventService) ListMine(ctx context.Context, creatorID uint64) ([]*models.Event, error) {
	return s.eventRepo.ListByCreator(ctx, creatorID)
}
