package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/utils"
)

// AdminService provides moderation and statistics for administrators
type AdminService struct {
	eventRepo repository.EventRepository
	statsRepo repository.StatsRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(eventRepo repository.EventRepository, statsRepo repository.StatsRepository) *AdminService {
	return &AdminService{
		eventRepo: eventRepo,
		statsRepo: statsRepo,
	}
}

// Stats aggregates the dashboard counters
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	totalUsers, err := s.statsRepo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalEvents, err := s.statsRepo.CountEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	pending, err := s.statsRepo.CountEventsByStatus(ctx, constants.EventStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending events: %w", err)
	}
	popular, err := s.statsRepo.PopularCategory(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:       totalUsers,
		TotalEvents:      totalEvents,
		PendingApprovals: pending,
		PopularCategory:  popular,
	}, nil
}

// ListEvents returns every event with organizer and RSVP details
func (s *AdminService) ListEvents(ctx context.Context) ([]*models.AdminEvent, error) {
	return s.eventRepo.ListForAdmin(ctx)
}

// Approve publishes an event
func (s *AdminService) Approve(ctx context.Context, adminID, eventID uint64) error {
	return s.setStatus(ctx, adminID, eventID, constants.EventStatusApproved)
}

// Decline rejects an event
func (s *AdminService) Decline(ctx context.Context, adminID, eventID uint64) error {
	return s.setStatus(ctx, adminID, eventID, constants.EventStatusDeclined)
}

// Delete removes an event in any status
func (s *AdminService) Delete(ctx context.Context, adminID, eventID uint64) error {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	log.Info().
		Uint64("admin_id", adminID).
		Uint64("event_id", eventID).
		Msg("Event deleted by admin")
	return nil
}

func (s *AdminService) setStatus(ctx context.Context, adminID, eventID uint64, status string) error {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.UpdateStatus(ctx, eventID, status); err != nil {
		return err
	}

	log.Info().
		Uint64("admin_id", adminID).
		Uint64("event_id", eventID).
		Str("status", status).
		Msg("Event moderated")
	return nil
}

func (s *AdminService) requireEvent(ctx context.Context, eventID uint64) error {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return utils.NewNotFoundMessage(constants.MsgEventNotFound)
	}
	return nil
}
