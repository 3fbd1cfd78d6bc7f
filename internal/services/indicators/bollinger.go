package indicators

import "github.com/solwatch/solwatch/internal/domain"

// Bollinger Band defaults.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0

	squeezeBandwidth = 5.0
)

// Bollinger computes the middle SMA band plus k standard deviations around
// it, bandwidth and percentB. Below the minimum period all bands collapse
// to the current close and the result is neutral.
func Bollinger(closes []float64, period int, k float64) domain.BollingerResult {
	price := closes[len(closes)-1]

	if len(closes) < period {
		return domain.BollingerResult{
			Upper:    price,
			Middle:   price,
			Lower:    price,
			PercentB: 0.5,
			Signal:   domain.SignalNeutral,
		}
	}

	window := closes[len(closes)-period:]
	middle := sma(window)
	sd := stddev(window, middle)

	upper := middle + k*sd
	lower := middle - k*sd

	var bandwidth float64
	if middle != 0 {
		bandwidth = (upper - lower) / middle * 100
	}

	percentB := 0.5
	if upper > lower {
		percentB = (price - lower) / (upper - lower)
	}

	signal := domain.SignalNeutral
	switch {
	case percentB >= 1:
		signal = domain.SignalOverbought
	case percentB <= 0:
		signal = domain.SignalOversold
	case bandwidth < squeezeBandwidth:
		signal = domain.SignalSqueeze
	}

	return domain.BollingerResult{
		Upper:     upper,
		Middle:    middle,
		Lower:     lower,
		Bandwidth: bandwidth,
		PercentB:  percentB,
		Signal:    signal,
	}
}
