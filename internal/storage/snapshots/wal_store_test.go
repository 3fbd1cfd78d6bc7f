package snapshots

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solwatch/solwatch/internal/domain"
)

func TestWALStoreAppendAndFilterByMint(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err, "failed to open snapshot store")
	defer func() {
		assert.NoError(t, store.Close(), "failed to close snapshot store")
	}()

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	snaps := []domain.PriceSnapshot{
		{TokenMint: "mint-1", PriceUSD: decimal.RequireFromString("0.000025"), TakenAt: base},
		{TokenMint: "mint-2", PriceUSD: decimal.NewFromInt(3), TakenAt: base.Add(time.Minute)},
		{TokenMint: "mint-1", PriceUSD: decimal.RequireFromString("0.000027"), TakenAt: base.Add(2 * time.Minute)},
	}
	for _, s := range snaps {
		require.NoError(t, store.Append(s))
	}

	got, err := store.ByMint("mint-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].PriceUSD.Equal(snaps[0].PriceUSD))
	assert.True(t, got[1].PriceUSD.Equal(snaps[2].PriceUSD))
}

func TestWALStoreRejectsSnapshotWithoutMint(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, store.Close())
	}()

	require.Error(t, store.Append(domain.PriceSnapshot{PriceUSD: decimal.NewFromInt(1)}))
}
