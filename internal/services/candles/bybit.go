package candles

import (
	"context"
	"sort"
	"strconv"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"github.com/solwatch/solwatch/internal/domain"
)

const bybitCategory = "spot"

// bybitIntervals maps the provider interval notation to Bybit's.
var bybitIntervals = map[string]bybit.Interval{
	"1m":  bybit.Interval1,
	"5m":  bybit.Interval5,
	"15m": bybit.Interval15,
	"1h":  bybit.Interval60,
	"4h":  bybit.Interval240,
	"1d":  bybit.IntervalD,
}

// BybitProvider fetches candles from the Bybit V5 market-data API.
type BybitProvider struct {
	client *bybit.Client
}

// NewBybitProvider wraps a Bybit client.
func NewBybitProvider(client *bybit.Client) *BybitProvider {
	return &BybitProvider{client: client}
}

// Candles fetches klines and converts them into a validated series.
// Bybit returns newest-first, so the result is re-sorted ascending.
func (p *BybitProvider) Candles(ctx context.Context, symbol, interval string, limit int) (*domain.Series, error) {
	bybitInterval, ok := bybitIntervals[interval]
	if !ok {
		return nil, errors.Errorf("unsupported Bybit interval %q", interval)
	}

	resp, err := p.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybitCategory,
		Symbol:   bybit.SymbolV5(symbol),
		Interval: bybitInterval,
		Limit:    &limit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetch klines from Bybit for %s", symbol)
	}
	if len(resp.Result.List) == 0 {
		return nil, errors.Errorf("Bybit returned no klines for %s", symbol)
	}

	candles := make([]domain.Candle, 0, len(resp.Result.List))
	for i, k := range resp.Result.List {
		startMs, err := strconv.ParseInt(k.StartTime, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Bybit kline start time at index %d", i)
		}
		candle, err := parseCandle(k.Open, k.High, k.Low, k.Close, k.Volume, startMs/1000)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Bybit kline at index %d", i)
		}
		candles = append(candles, candle)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp < candles[j].Timestamp
	})

	return domain.NewSeries(candles)
}
