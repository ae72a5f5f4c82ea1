package handlers

import (
	"context"

	"github.com/eventure/eventure-api/internal/models"
)

// EventServiceInterface defines the methods required from the event service.
type EventServiceInterface interface {
	// ListPublic returns approved public events matching the filter.
	ListPublic(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)

	// GetPublic returns one approved public event, or a not found error.
	GetPublic(ctx context.Context, id uint64) (*models.Event, error)

	// Create stores a new event in the pending state.
	Create(ctx context.Context, creatorID uint64, req *models.CreateEventRequest) (*models.Event, error)

	// ListMine returns every event created by the user regardless of status.
	ListMine(ctx context.Context, creatorID uint64) ([]*models.Event, error)
}

// AdminServiceInterface defines the methods required from the moderation service.
type AdminServiceInterface interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	ListEvents(ctx context.Context) ([]*models.AdminEvent, error)
	Approve(ctx context.Context, adminID, eventID uint64) error
	Decline(ctx context.Context, adminID, eventID uint64) error
	Delete(ctx context.Context, adminID, eventID uint64) error
}
