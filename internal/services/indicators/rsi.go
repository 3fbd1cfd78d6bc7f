package indicators

import "github.com/solwatch/solwatch/internal/domain"

// DefaultRSIPeriod is the standard Wilder lookback.
const DefaultRSIPeriod = 14

// RSI computes the Wilder-smoothed Relative Strength Index over closes.
// With fewer than period+1 closes it returns the neutral default of 50.
func RSI(closes []float64, period int) domain.RSIResult {
	value := rsiValue(closes, period)

	signal := domain.SignalNeutral
	switch {
	case value >= 70:
		signal = domain.SignalOverbought
	case value <= 30:
		signal = domain.SignalOversold
	}

	return domain.RSIResult{
		Value:      round1(value),
		Signal:     signal,
		Divergence: rsiDivergence(closes, period),
	}
}

func rsiValue(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// Wilder smoothing over the remainder of the series.
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - change) / float64(period)
		}
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// rsiDivergence compares the most recent period window against the
// immediately preceding one: bearish when price makes a higher high while
// RSI does not, bullish when price makes a lower low while RSI is higher
// than the prior window's RSI.
func rsiDivergence(closes []float64, period int) string {
	if len(closes) < 2*period+1 {
		return domain.CrossoverNone
	}

	recent := closes[len(closes)-period:]
	prior := closes[len(closes)-2*period : len(closes)-period]

	rsiRecent := rsiValue(closes, period)
	rsiPrior := rsiValue(closes[:len(closes)-period], period)

	if maxOf(recent) > maxOf(prior) && rsiRecent <= rsiPrior {
		return domain.CrossoverBearish
	}
	if minOf(recent) < minOf(prior) && rsiRecent > rsiPrior {
		return domain.CrossoverBullish
	}
	return domain.CrossoverNone
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
