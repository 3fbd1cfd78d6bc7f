package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSeriesRejectsUnorderedCandles(t *testing.T) {
	_, err := NewSeries([]Candle{
		{Close: 100, Timestamp: 900},
		{Close: 101, Timestamp: 0},
	})
	require.Error(t, err)
}

func TestSeriesAccessors(t *testing.T) {
	series, err := NewSeries([]Candle{
		{Open: 100, High: 105, Low: 95, Close: 100, Volume: 10, Timestamp: 0},
		{Open: 100, High: 112, Low: 99, Close: 110, Volume: 20, Timestamp: 900},
	})
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	require.Equal(t, 110.0, series.Last().Close)
	require.Equal(t, []float64{100, 110}, series.Closes())
	require.Equal(t, 112.0, series.HighestHigh())
	require.Equal(t, 95.0, series.LowestLow())
	require.InDelta(t, 10, series.ChangePercent(), 1e-9)
}

func TestSeriesCopiesInput(t *testing.T) {
	candles := []Candle{{Close: 100, Timestamp: 0}}
	series, err := NewSeries(candles)
	require.NoError(t, err)

	candles[0].Close = 1
	require.Equal(t, 100.0, series.Last().Close)
}
