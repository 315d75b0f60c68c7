package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestTicketStats(t *testing.T) {
	f := newFixture(t, true)
	tickets, err := f.store.List(context.Background())
	require.NoError(t, err)

	cases := []struct {
		name     string
		viewer   domain.PublicAccount
		total    int
		statuses map[domain.TicketStatus]int
	}{
		{
			name:   "AdminCountsEverything",
			viewer: adminViewer,
			total:  3,
			statuses: map[domain.TicketStatus]int{
				domain.TicketStatusOpen:       1,
				domain.TicketStatusInProgress: 1,
				domain.TicketStatusResolved:   1,
				domain.TicketStatusClosed:     0,
			},
		},
		{
			name:   "UserCountsOwnTickets",
			viewer: userViewer,
			total:  1,
			statuses: map[domain.TicketStatus]int{
				domain.TicketStatusOpen:       0,
				domain.TicketStatusInProgress: 1,
				domain.TicketStatusResolved:   0,
				domain.TicketStatusClosed:     0,
			},
		},
		{
			name:   "UnknownViewerCountsNothing",
			viewer: domain.PublicAccount{ID: "99", Role: domain.RoleUser},
			total:  0,
			statuses: map[domain.TicketStatus]int{
				domain.TicketStatusOpen:       0,
				domain.TicketStatusInProgress: 0,
				domain.TicketStatusResolved:   0,
				domain.TicketStatusClosed:     0,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := TicketStats(tickets, tc.viewer)
			assert.Equal(t, tc.total, summary.Total)
			assert.Equal(t, tc.statuses, summary.ByStatus)
			assert.Len(t, summary.ByPriority, len(domain.TicketPriorities))

			var byPriority int
			for _, n := range summary.ByPriority {
				byPriority += n
			}
			assert.Equal(t, tc.total, byPriority)
		})
	}
}

func TestTicketStatsFollowsUpdates(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	tickets, err := f.store.List(ctx)
	require.NoError(t, err)

	_, err = f.store.UpdateStatus(ctx, tickets[0].ID, domain.TicketStatusClosed)
	require.NoError(t, err)
	tickets, err = f.store.List(ctx)
	require.NoError(t, err)

	summary := TicketStats(tickets, adminViewer)
	assert.Equal(t, 0, summary.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 1, summary.ByStatus[domain.TicketStatusClosed])
}
