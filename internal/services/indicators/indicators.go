// Package indicators implements the technical indicators of the signal
// engine: Wilder RSI, EMA 9/21 crossover, Bollinger Bands, the stochastic
// oscillator and the confluence vote aggregation.
//
// Every function degrades to a neutral default below its minimum history
// instead of returning an error; partial signal quality is preferable to
// blocking the whole analysis.
package indicators

import "math"

func sma(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	return math.Sqrt(variance / float64(len(values)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
