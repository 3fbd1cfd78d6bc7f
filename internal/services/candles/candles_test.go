package candles

import (
	"context"
	"testing"

	"github.com/hirokisan/bybit/v2"
	"github.com/stretchr/testify/require"
)

func TestParseCandle(t *testing.T) {
	candle, err := parseCandle("1.5", "2.0", "1.0", "1.8", "1000", 1756100000)
	require.NoError(t, err)

	require.Equal(t, 1.5, candle.Open)
	require.Equal(t, 2.0, candle.High)
	require.Equal(t, 1.0, candle.Low)
	require.Equal(t, 1.8, candle.Close)
	require.Equal(t, 1000.0, candle.Volume)
	require.Equal(t, int64(1756100000), candle.Timestamp)
}

func TestParseCandleRejectsMalformedNumbers(t *testing.T) {
	_, err := parseCandle("1.5", "not-a-number", "1.0", "1.8", "1000", 0)
	require.Error(t, err)
}

func TestBybitProviderRejectsUnknownInterval(t *testing.T) {
	p := NewBybitProvider(bybit.NewClient())
	_, err := p.Candles(context.Background(), "SOLUSDT", "2m", 10)
	require.Error(t, err)
}
