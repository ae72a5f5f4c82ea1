package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

func TestAdminService_Stats(t *testing.T) {
	stats := &MockStatsRepository{
		Users: 10, Events: 6, Pending: 2,
		Popular: models.CategoryCount{Name: "Music", Count: 3},
	}
	svc := NewAdminService(&MockEventRepository{}, stats)

	result, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &models.AdminStats{
		TotalUsers:       10,
		TotalEvents:      6,
		PendingApprovals: 2,
		PopularCategory:  models.CategoryCount{Name: "Music", Count: 3},
	}, result)

	stats.Err = errors.New("db down")
	_, err = svc.Stats(context.Background())
	assert.Error(t, err)
}

func TestAdminService_Moderation(t *testing.T) {
	statuses := map[uint64]string{1: constants.EventStatusPending}
	deleted := map[uint64]bool{}

	events := &MockEventRepository{
		ExistsFunc: func(ctx context.Context, id uint64) (bool, error) {
			_, ok := statuses[id]
			return ok, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id uint64, status string) error {
			statuses[id] = status
			return nil
		},
		DeleteFunc: func(ctx context.Context, id uint64) error {
			deleted[id] = true
			delete(statuses, id)
			return nil
		},
	}
	svc := NewAdminService(events, &MockStatsRepository{})
	ctx := context.Background()

	require.NoError(t, svc.Approve(ctx, 99, 1))
	assert.Equal(t, constants.EventStatusApproved, statuses[1])

	// Approving twice is not an error.
	require.NoError(t, svc.Approve(ctx, 99, 1))

	require.NoError(t, svc.Decline(ctx, 99, 1))
	assert.Equal(t, constants.EventStatusDeclined, statuses[1])

	require.NoError(t, svc.Delete(ctx, 99, 1))
	assert.True(t, deleted[1])

	for name, op := range map[string]func(context.Context, uint64, uint64) error{
		"approve": svc.Approve,
		"decline": svc.Decline,
		"delete":  svc.Delete,
	} {
		err := op(ctx, 99, 1)
		assert.True(t, utils.IsNotFoundError(err), name)
		assert.Equal(t, constants.MsgEventNotFound, utils.ParseError(err).Message, name)
	}
}

func TestAdminService_ListEvents(t *testing.T) {
	events := &MockEventRepository{
		ListForAdminFunc: func(context.Context) ([]*models.AdminEvent, error) {
			return []*models.AdminEvent{{OrganizerName: "Unknown"}}, nil
		},
	}
	svc := NewAdminService(events, &MockStatsRepository{})

	result, err := svc.ListEvents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Unknown", result[0].OrganizerName)
}
