package indicators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solwatch/solwatch/internal/domain"
)

func neutralInputs() (domain.RSIResult, domain.EMAResult, domain.BollingerResult, domain.StochasticResult) {
	return domain.RSIResult{Value: 50, Signal: domain.SignalNeutral, Divergence: domain.CrossoverNone},
		domain.EMAResult{Crossover: domain.CrossoverNone, PriceVsEMA: domain.PriceBetween},
		domain.BollingerResult{PercentB: 0.5, Signal: domain.SignalNeutral},
		domain.StochasticResult{K: 50, D: 50, Signal: domain.SignalNeutral, Crossover: domain.CrossoverNone}
}

func TestConfluenceNeutral(t *testing.T) {
	score, signal := Confluence(neutralInputs())
	require.Equal(t, 50.0, score)
	require.Equal(t, domain.ConfluenceNeutral, signal)
}

func TestConfluenceAllBullishVotes(t *testing.T) {
	rsi, ema, bb, stoch := neutralInputs()
	rsi.Signal = domain.SignalOversold
	rsi.Divergence = domain.CrossoverBullish
	ema.Crossover = domain.CrossoverBullish
	ema.PriceVsEMA = domain.PriceAboveBoth
	bb.Signal = domain.SignalOversold
	bb.PercentB = 0.1
	stoch.Signal = domain.SignalOversold
	stoch.Crossover = domain.CrossoverBullish

	score, signal := Confluence(rsi, ema, bb, stoch)
	require.InDelta(t, 87.5, score, 1e-9)
	require.Equal(t, domain.ConfluenceStrongBuy, signal)
}

func TestConfluenceAllBearishVotes(t *testing.T) {
	rsi, ema, bb, stoch := neutralInputs()
	rsi.Signal = domain.SignalOverbought
	rsi.Divergence = domain.CrossoverBearish
	ema.Crossover = domain.CrossoverBearish
	ema.PriceVsEMA = domain.PriceBelowBoth
	bb.Signal = domain.SignalOverbought
	bb.PercentB = 0.95
	stoch.Signal = domain.SignalOverbought
	stoch.Crossover = domain.CrossoverBearish

	score, signal := Confluence(rsi, ema, bb, stoch)
	require.InDelta(t, 12.5, score, 1e-9)
	require.Equal(t, domain.ConfluenceStrongSell, signal)
}

func TestConfluenceBuyRequiresClearMajority(t *testing.T) {
	rsi, ema, bb, stoch := neutralInputs()
	rsi.Signal = domain.SignalOversold
	ema.Crossover = domain.CrossoverBullish
	bb.PercentB = 0.9

	// 4 bullish votes against 1 bearish: buy, not strong_buy.
	score, signal := Confluence(rsi, ema, bb, stoch)
	require.InDelta(t, 59.375, score, 1e-9)
	require.Equal(t, domain.ConfluenceBuy, signal)
}

func TestConfluenceSignalThresholds(t *testing.T) {
	tests := []struct {
		bullish, bearish int
		want             string
	}{
		{6, 1, domain.ConfluenceStrongBuy},
		{6, 2, domain.ConfluenceBuy},
		{4, 2, domain.ConfluenceNeutral},
		{5, 2, domain.ConfluenceBuy},
		{1, 6, domain.ConfluenceStrongSell},
		{2, 5, domain.ConfluenceSell},
		{2, 4, domain.ConfluenceNeutral},
		{0, 0, domain.ConfluenceNeutral},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, confluenceSignal(tc.bullish, tc.bearish),
			"bullish=%d bearish=%d", tc.bullish, tc.bearish)
	}
}
