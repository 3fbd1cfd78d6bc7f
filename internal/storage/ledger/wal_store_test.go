package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solwatch/solwatch/internal/domain"
)

func testRecord(planID, side string) domain.TradeRecord {
	return domain.TradeRecord{
		ID:           "rec-" + planID + "-" + side,
		PlanID:       planID,
		UserID:       "user-1",
		TokenMint:    "mint-1",
		TokenSymbol:  "BONK",
		Side:         side,
		PriceUSD:     decimal.RequireFromString("0.000025"),
		AmountSOL:    decimal.NewFromInt(2),
		AmountTokens: decimal.NewFromInt(500),
		TxSignature:  "sig-" + side,
		ExecutedAt:   time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestWALStoreAppendAndReadBack(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err, "failed to open trade ledger")
	defer func() {
		assert.NoError(t, store.Close(), "failed to close trade ledger")
	}()

	require.NoError(t, store.Append(testRecord("plan-1", domain.SideBuy)))
	require.NoError(t, store.Append(testRecord("plan-1", domain.SideSell)))
	require.NoError(t, store.Append(testRecord("plan-2", domain.SideBuy)))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 3)

	byPlan, err := store.ByPlan("plan-1")
	require.NoError(t, err)
	require.Len(t, byPlan, 2)
	assert.Equal(t, domain.SideBuy, byPlan[0].Side)
	assert.Equal(t, domain.SideSell, byPlan[1].Side)
	assert.True(t, byPlan[0].AmountSOL.Equal(decimal.NewFromInt(2)))
}

func TestWALStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(testRecord("plan-1", domain.SideBuy)))
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, reopened.Close())
	}()

	all, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "plan-1", all[0].PlanID)
}

func TestWALStoreRejectsRecordWithoutPlanID(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, store.Close())
	}()

	err = store.Append(domain.TradeRecord{Side: domain.SideBuy})
	require.Error(t, err)
}
