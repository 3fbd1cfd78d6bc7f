package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestPlan(t *testing.T) *TradePlan {
	t.Helper()
	plan, err := NewLimitPlan("user-1", "mint-1", "BONK", 5,
		decimal.NewFromInt(2),
		LimitOrder{
			TargetPrice:      decimal.NewFromInt(100),
			ThresholdPercent: 1,
			MaxWait:          time.Hour,
		},
		10, 20)
	require.NoError(t, err)
	return plan
}

func TestNewLimitPlanValidation(t *testing.T) {
	_, err := NewLimitPlan("u", "m", "S", 5, decimal.Zero,
		LimitOrder{TargetPrice: decimal.NewFromInt(100), MaxWait: time.Hour}, 10, 20)
	require.Error(t, err)

	_, err = NewLimitPlan("u", "m", "S", 5, decimal.NewFromInt(1),
		LimitOrder{TargetPrice: decimal.Zero, MaxWait: time.Hour}, 10, 20)
	require.Error(t, err)

	_, err = NewLimitPlan("u", "m", "S", 5, decimal.NewFromInt(1),
		LimitOrder{TargetPrice: decimal.NewFromInt(100)}, 10, 20)
	require.Error(t, err, "max wait is required")

	_, err = NewLimitPlan("u", "m", "S", 5, decimal.NewFromInt(1),
		LimitOrder{TargetPrice: decimal.NewFromInt(100), MaxWait: time.Hour}, 0, 20)
	require.Error(t, err)
}

func TestNewLimitPlanStartsWaiting(t *testing.T) {
	plan := newTestPlan(t)
	require.Equal(t, StatusWaitingEntry, plan.Status)
	require.NotEmpty(t, plan.ID)
	require.True(t, plan.Order.IsLimit())
	require.False(t, plan.Order.Limit.WaitingSince.IsZero())
}

func TestShouldFillAsymmetry(t *testing.T) {
	limit := LimitOrder{TargetPrice: decimal.NewFromInt(100), ThresholdPercent: 1}

	tests := []struct {
		price string
		want  bool
	}{
		{"100", true},
		{"100.5", true},  // inside the threshold band
		{"101", true},    // exactly at the band edge
		{"101.01", false},
		{"102", false},
		{"50", true}, // far below target still fills
	}
	for _, tc := range tests {
		price, err := decimal.NewFromString(tc.price)
		require.NoError(t, err)
		require.Equal(t, tc.want, limit.ShouldFill(price), "price %s", tc.price)
	}
}

func TestShouldFillZeroTargetNeverFills(t *testing.T) {
	limit := LimitOrder{ThresholdPercent: 1}
	require.False(t, limit.ShouldFill(decimal.NewFromInt(1)))
}

func TestLimitOrderExpiry(t *testing.T) {
	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	limit := LimitOrder{MaxWait: time.Hour, WaitingSince: start}

	require.False(t, limit.Expired(start.Add(time.Hour)))
	require.True(t, limit.Expired(start.Add(time.Hour+time.Second)))
}

func TestMarkActiveDerivesExitPrices(t *testing.T) {
	plan := newTestPlan(t)
	now := time.Now()

	err := plan.MarkActive(decimal.NewFromInt(100), decimal.NewFromInt(500), "sig-entry", now)
	require.NoError(t, err)

	require.Equal(t, StatusActive, plan.Status)
	require.True(t, plan.StopLossPrice.Equal(decimal.NewFromInt(90)), "got %s", plan.StopLossPrice)
	require.True(t, plan.TakeProfitPrice.Equal(decimal.NewFromInt(120)), "got %s", plan.TakeProfitPrice)
	require.Equal(t, "sig-entry", plan.EntryTxSignature)
}

func TestMarkActiveRejectsBadFill(t *testing.T) {
	plan := newTestPlan(t)
	require.Error(t, plan.MarkActive(decimal.Zero, decimal.NewFromInt(500), "sig", time.Now()))
	require.Error(t, plan.MarkActive(decimal.NewFromInt(100), decimal.Zero, "sig", time.Now()))
	require.Equal(t, StatusWaitingEntry, plan.Status)
}

func TestMarkCompletedSetsProfitLossOnce(t *testing.T) {
	plan := newTestPlan(t)
	now := time.Now()
	require.NoError(t, plan.MarkActive(decimal.NewFromInt(100), decimal.NewFromInt(500), "sig-entry", now))

	err := plan.MarkCompleted(TriggerTakeProfit, decimal.NewFromInt(120), decimal.RequireFromString("2.5"), "sig-exit", now)
	require.NoError(t, err)

	require.Equal(t, StatusCompleted, plan.Status)
	require.Equal(t, TriggerTakeProfit, plan.TriggeredBy)
	require.True(t, plan.ProfitLossSOL.Equal(decimal.RequireFromString("0.5")), "got %s", plan.ProfitLossSOL)
	require.True(t, plan.ProfitLossPercent.Equal(decimal.NewFromInt(25)), "got %s", plan.ProfitLossPercent)

	// Terminal plans reject any further transition.
	require.Error(t, plan.MarkCompleted(TriggerStopLoss, decimal.NewFromInt(90), decimal.NewFromInt(1), "sig", now))
	require.Error(t, plan.MarkExpired(now))
	require.True(t, plan.Status.IsTerminal())
}

func TestMarkCompletedRejectsUnknownTrigger(t *testing.T) {
	plan := newTestPlan(t)
	now := time.Now()
	require.NoError(t, plan.MarkActive(decimal.NewFromInt(100), decimal.NewFromInt(500), "sig", now))

	require.Error(t, plan.MarkCompleted("manual", decimal.NewFromInt(100), decimal.NewFromInt(2), "sig", now))
	require.Equal(t, StatusActive, plan.Status)
}

func TestMarkExpiredOnlyFromWaiting(t *testing.T) {
	plan := newTestPlan(t)
	require.NoError(t, plan.MarkExpired(time.Now()))
	require.Equal(t, StatusExpired, plan.Status)

	active := newTestPlan(t)
	require.NoError(t, active.MarkActive(decimal.NewFromInt(100), decimal.NewFromInt(500), "sig", time.Now()))
	require.Error(t, active.MarkExpired(time.Now()))
}

func TestCanTransitionTable(t *testing.T) {
	plan := &TradePlan{Status: StatusWaitingEntry}
	require.True(t, plan.CanTransition(StatusActive))
	require.True(t, plan.CanTransition(StatusExpired))
	require.True(t, plan.CanTransition(StatusCancelled))
	require.False(t, plan.CanTransition(StatusCompleted))

	plan.Status = StatusCompleted
	require.False(t, plan.CanTransition(StatusActive))
	require.False(t, plan.CanTransition(StatusCancelled))
}
