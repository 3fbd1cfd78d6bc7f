// Package candles fetches OHLCV candle series from exchange market-data
// APIs. The analysis engine runs on 15-minute candles over a trailing 24h
// window by default.
package candles

import (
	"context"

	"github.com/solwatch/solwatch/internal/domain"
)

// Default fetch parameters: 15m candles covering the trailing 24h.
const (
	DefaultInterval = "15m"
	DefaultLimit    = 96
)

// Provider fetches a time-ordered candle series for a symbol.
type Provider interface {
	Candles(ctx context.Context, symbol, interval string, limit int) (*domain.Series, error)
}
