package candles

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"github.com/solwatch/solwatch/internal/domain"
)

// BinanceProvider fetches candles from the Binance spot market-data API.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider wraps a Binance client.
func NewBinanceProvider(client *binance.Client) *BinanceProvider {
	return &BinanceProvider{client: client}
}

// Candles fetches klines and converts them into a validated series.
func (p *BinanceProvider) Candles(ctx context.Context, symbol, interval string, limit int) (*domain.Series, error) {
	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch klines from Binance for %s", symbol)
	}

	candles := make([]domain.Candle, len(klines))
	for i, k := range klines {
		candle, err := parseCandle(k.Open, k.High, k.Low, k.Close, k.Volume, k.OpenTime/1000)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Binance kline at index %d", i)
		}
		candles[i] = candle
	}

	return domain.NewSeries(candles)
}

func parseCandle(open, high, low, close, volume string, ts int64) (domain.Candle, error) {
	var (
		candle domain.Candle
		err    error
	)
	for _, f := range []struct {
		dst *float64
		src string
	}{
		{&candle.Open, open},
		{&candle.High, high},
		{&candle.Low, low},
		{&candle.Close, close},
		{&candle.Volume, volume},
	} {
		*f.dst, err = strconv.ParseFloat(f.src, 64)
		if err != nil {
			return domain.Candle{}, errors.Wrapf(err, "parse %q", f.src)
		}
	}
	candle.Timestamp = ts
	return candle, nil
}
