// Package domain defines the core data structures of the trade-monitoring engine.
package domain

import (
	"github.com/pkg/errors"
)

// MinCandles is the minimum series length the analysis engine accepts.
const MinCandles = 10

// ErrInsufficientData is returned when a candle series is too short to analyze.
var ErrInsufficientData = errors.New("insufficient candle data")

// Candle is one OHLCV sample for a fixed time bucket.
type Candle struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// Series is an immutable, time-ordered sequence of candles.
type Series struct {
	candles []Candle
}

// NewSeries validates ordering and wraps the candles.
// Candles must be sorted ascending by timestamp.
func NewSeries(candles []Candle) (*Series, error) {
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp < candles[i-1].Timestamp {
			return nil, errors.Errorf("candles out of order at index %d", i)
		}
	}
	cp := make([]Candle, len(candles))
	copy(cp, candles)
	return &Series{candles: cp}, nil
}

// Len returns the number of candles in the series.
func (s *Series) Len() int {
	return len(s.candles)
}

// Candles returns a copy of the underlying candles.
func (s *Series) Candles() []Candle {
	cp := make([]Candle, len(s.candles))
	copy(cp, s.candles)
	return cp
}

// Last returns the most recent candle.
func (s *Series) Last() Candle {
	return s.candles[len(s.candles)-1]
}

// Closes returns closing prices in time order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i] = c.Close
	}
	return out
}

// Highs returns high prices in time order.
func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i] = c.High
	}
	return out
}

// Lows returns low prices in time order.
func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i] = c.Low
	}
	return out
}

// Volumes returns volumes in time order.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i] = c.Volume
	}
	return out
}

// ChangePercent returns the percent change from the first close to the last.
// The series is expected to cover the trailing 24h window.
func (s *Series) ChangePercent() float64 {
	first := s.candles[0].Close
	if first == 0 {
		return 0
	}
	return (s.Last().Close - first) / first * 100
}

// HighestHigh returns the maximum high over the whole series.
func (s *Series) HighestHigh() float64 {
	highest := s.candles[0].High
	for _, c := range s.candles[1:] {
		if c.High > highest {
			highest = c.High
		}
	}
	return highest
}

// LowestLow returns the minimum low over the whole series.
func (s *Series) LowestLow() float64 {
	lowest := s.candles[0].Low
	for _, c := range s.candles[1:] {
		if c.Low < lowest {
			lowest = c.Low
		}
	}
	return lowest
}
