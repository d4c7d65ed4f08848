package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
)

func TestBuildOrder_Discounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var tests = []struct {
		name            string
		lines           []model.CartLine
		completedOrders int
		wantTotal       float64
		wantDiscount    float64
		wantApplied     string
	}{
		{
			name: "no discounts",
			lines: []model.CartLine{
				{BookID: 1, Title: "Dune", Price: 10.00, Stock: 10, Quantity: 2},
			},
			completedOrders: 3,
			wantTotal:       20.00,
			wantDiscount:    0,
			wantApplied:     "",
		},
		{
			name: "bulk at five units",
			lines: []model.CartLine{
				{BookID: 1, Title: "Dune", Price: 10.00, Stock: 10, Quantity: 2},
				{BookID: 2, Title: "Hyperion", Price: 20.00, Stock: 10, Quantity: 1},
			},
			completedOrders: 0,
			// 40.00 across 3 units is below the threshold
			wantTotal:    40.00,
			wantDiscount: 0,
			wantApplied:  "",
		},
		{
			name: "bulk applies",
			lines: []model.CartLine{
				{BookID: 1, Title: "Dune", Price: 8.00, Stock: 10, Quantity: 5},
			},
			completedOrders: 0,
			wantTotal:       38.00,
			wantDiscount:    2.00,
			wantApplied:     "bulk",
		},
		{
			name: "loyalty on the eleventh order",
			lines: []model.CartLine{
				{BookID: 1, Title: "Dune", Price: 10.00, Stock: 10, Quantity: 2},
			},
			completedOrders: 10,
			wantTotal:       18.00,
			wantDiscount:    2.00,
			wantApplied:     "loyalty",
		},
		{
			name: "bulk then loyalty compound sequentially",
			lines: []model.CartLine{
				{BookID: 1, Title: "Dune", Price: 8.00, Stock: 10, Quantity: 5},
			},
			completedOrders: 10,
			// 40.00 -> 38.00 after bulk -> 34.20 after loyalty
			wantTotal:    34.20,
			wantDiscount: 5.80,
			wantApplied:  "bulk,loyalty",
		},
		{
			name: "loyalty skipped between intervals",
			lines: []model.CartLine{
				{BookID: 1, Title: "Dune", Price: 10.00, Stock: 10, Quantity: 1},
			},
			completedOrders: 11,
			wantTotal:       10.00,
			wantDiscount:    0,
			wantApplied:     "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			order, items := buildOrder(7, tt.lines, tt.completedOrders, now)

			require.InDelta(t, tt.wantTotal, order.TotalPrice, 1e-9)
			require.InDelta(t, tt.wantDiscount, order.DiscountAmount, 1e-9)
			require.Equal(t, tt.wantApplied, order.AppliedDiscounts)

			require.Equal(t, int64(7), order.MemberID)
			require.Equal(t, model.OrderStatusPending, order.OrderStatus)
			require.False(t, order.IsPaid)
			require.Equal(t, now.Add(pickupWindow), order.PickupDeadline)
			require.Len(t, items, len(tt.lines))
		})
	}
}

func TestBuildOrder_LineSnapshots(t *testing.T) {
	t.Parallel()

	lines := []model.CartLine{
		{BookID: 1, Title: "Dune", Price: 9.99, Stock: 10, Quantity: 3},
		{BookID: 2, Title: "Hyperion", Price: 14.50, Stock: 5, Quantity: 2},
	}
	_, items := buildOrder(1, lines, 0, time.Now())

	require.Equal(t, "Dune", items[0].Title)
	require.InDelta(t, 29.97, items[0].LineTotal, 1e-9)
	require.InDelta(t, 9.99, items[0].UnitPrice, 1e-9)
	require.Equal(t, 3, items[0].Quantity)

	require.Equal(t, "Hyperion", items[1].Title)
	require.InDelta(t, 29.00, items[1].LineTotal, 1e-9)
}

func TestNewClaimCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := newClaimCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 1_000_000)
		seen[code] = struct{}{}
	}
	// collisions over 100 draws from a million-code space would be surprising
	require.Greater(t, len(seen), 90)
}

func TestCreateWithFreshCode_RetriesOnCollision(t *testing.T) {
	t.Parallel()

	calls := 0
	created, err := createWithFreshCode(model.Order{MemberID: 7}, func(o model.Order) (model.Order, error) {
		calls++
		if calls < 3 {
			return model.Order{}, errs.ErrClaimCodeTaken
		}
		o.ID = 12
		return o, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, int64(12), created.ID)
	require.Len(t, created.ClaimCode, 6)
}

func TestCreateWithFreshCode_GivesUpAfterBudget(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := createWithFreshCode(model.Order{}, func(model.Order) (model.Order, error) {
		calls++
		return model.Order{}, errs.ErrClaimCodeTaken
	})
	require.ErrorIs(t, err, errs.ErrClaimCodeTaken)
	require.Equal(t, claimCodeAttempts, calls)
}

func TestCreateWithFreshCode_PropagatesOtherErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := createWithFreshCode(model.Order{}, func(model.Order) (model.Order, error) {
		calls++
		return model.Order{}, errs.ErrNotFound
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Equal(t, 1, calls)
}

func TestRound2(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 38.00, round2(37.999999), 1e-9)
	require.InDelta(t, 3.8, round2(3.8000000000000003), 1e-9)
	require.InDelta(t, 0.1, round2(0.10499), 1e-9)
	require.InDelta(t, 0.11, round2(0.105001), 1e-9)
}
