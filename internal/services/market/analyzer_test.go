package market

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/solwatch/solwatch/internal/domain"
)

func TestAnalyzeRejectsShortSeries(t *testing.T) {
	series, err := domain.NewSeries([]domain.Candle{
		{Close: 100, Timestamp: 0},
		{Close: 101, Timestamp: 900},
	})
	require.NoError(t, err)

	_, err = NewAnalyzer().Analyze(series)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInsufficientData))
}

func TestAnalyzeRejectsNilSeries(t *testing.T) {
	_, err := NewAnalyzer().Analyze(nil)
	require.True(t, errors.Is(err, domain.ErrInsufficientData))
}

func TestAnalyzeZigzagUptrend(t *testing.T) {
	series := zigzagUptrend(t, 20_000)

	analysis, err := NewAnalyzer().Analyze(series)
	require.NoError(t, err)

	require.Equal(t, 112.0, analysis.CurrentPrice)
	require.Equal(t, 113.0, analysis.High24h)
	require.Equal(t, 99.0, analysis.Low24h)
	require.InDelta(t, 12, analysis.Change24h, 1e-9)
	require.Equal(t, domain.TrendBullish, analysis.Trend)

	// Ten candles is below every indicator period, so the indicator block
	// degrades to its neutral defaults while structure analysis still runs.
	require.Equal(t, 50.0, analysis.Indicators.RSI.Value)
	require.Equal(t, analysis.CurrentPrice, analysis.Indicators.EMA.EMA9)
	require.Equal(t, 0.5, analysis.Indicators.Bollinger.PercentB)

	require.Equal(t, analysis.CurrentPrice, analysis.SuggestedEntry)
	require.Greater(t, analysis.SuggestedTakeProfit, analysis.SuggestedStopLoss)
	require.Equal(t, domain.EntryMomentumBuy, analysis.EntrySignal)
	require.Equal(t, domain.ScalpGood, analysis.ScalpingVerdict)
}
