package indicators

import "github.com/solwatch/solwatch/internal/domain"

// Stochastic oscillator defaults.
const (
	DefaultStochKPeriod = 5
	DefaultStochDPeriod = 3
)

// Stochastic computes %K over a rolling kPeriod window and %D as the
// dPeriod SMA of %K. A flat window (highest high equals lowest low) yields
// 50 instead of dividing by zero. Crossover is decided by the last two
// (%K, %D) pairs. With insufficient history both lines degrade to 50.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) domain.StochasticResult {
	if len(closes) < kPeriod+dPeriod || len(highs) != len(closes) || len(lows) != len(closes) {
		return domain.StochasticResult{
			K:         50,
			D:         50,
			Signal:    domain.SignalNeutral,
			Crossover: domain.CrossoverNone,
		}
	}

	kSeries := make([]float64, 0, len(closes)-kPeriod+1)
	for i := kPeriod - 1; i < len(closes); i++ {
		highest := maxOf(highs[i-kPeriod+1 : i+1])
		lowest := minOf(lows[i-kPeriod+1 : i+1])
		if highest == lowest {
			kSeries = append(kSeries, 50)
			continue
		}
		kSeries = append(kSeries, (closes[i]-lowest)/(highest-lowest)*100)
	}

	k := kSeries[len(kSeries)-1]
	d := sma(kSeries[len(kSeries)-dPeriod:])

	prevK := kSeries[len(kSeries)-2]
	prevD := d
	if len(kSeries) > dPeriod {
		prevD = sma(kSeries[len(kSeries)-dPeriod-1 : len(kSeries)-1])
	}

	signal := domain.SignalNeutral
	switch {
	case k >= 80 && d >= 80:
		signal = domain.SignalOverbought
	case k <= 20 && d <= 20:
		signal = domain.SignalOversold
	}

	crossover := domain.CrossoverNone
	switch {
	case prevK <= prevD && k > d:
		crossover = domain.CrossoverBullish
	case prevK >= prevD && k < d:
		crossover = domain.CrossoverBearish
	}

	return domain.StochasticResult{
		K:         k,
		D:         d,
		Signal:    signal,
		Crossover: crossover,
	}
}
