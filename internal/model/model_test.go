package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pustakalaya/bookstore-service/internal/model"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name string
		from model.OrderStatus
		to   model.OrderStatus
		want bool
	}{
		{"pending to completed", model.OrderStatusPending, model.OrderStatusCompleted, true},
		{"pending to cancelled", model.OrderStatusPending, model.OrderStatusCancelled, true},
		{"pending to claimed", model.OrderStatusPending, model.OrderStatusClaimed, true},
		{"pending to pending", model.OrderStatusPending, model.OrderStatusPending, false},
		{"completed is terminal", model.OrderStatusCompleted, model.OrderStatusCancelled, false},
		{"cancelled is terminal", model.OrderStatusCancelled, model.OrderStatusPending, false},
		{"claimed is terminal", model.OrderStatusClaimed, model.OrderStatusCompleted, false},
		{"unknown target", model.OrderStatusPending, model.OrderStatus("shipped"), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, model.OrderStatusPending.Valid())
	require.True(t, model.OrderStatusClaimed.Valid())
	require.False(t, model.OrderStatus("shipped").Valid())
	require.False(t, model.OrderStatus("").Valid())
}

func TestAnnouncement_Channel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "announcement.public", model.Announcement{}.Channel())

	memberID := int64(42)
	require.Equal(t, "announcement.user.42", model.Announcement{MemberID: &memberID}.Channel())
}
