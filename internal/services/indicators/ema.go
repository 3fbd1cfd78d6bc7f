package indicators

import "github.com/solwatch/solwatch/internal/domain"

// EMA periods for the fast/slow crossover pair.
const (
	FastEMAPeriod = 9
	SlowEMAPeriod = 21
)

// EMASignals computes the EMA(9)/EMA(21) pair, their crossover state and
// the position of the current close relative to both averages.
// With fewer than 21 closes both EMAs degrade to the current close.
func EMASignals(closes []float64) domain.EMAResult {
	price := closes[len(closes)-1]

	if len(closes) < SlowEMAPeriod {
		return domain.EMAResult{
			EMA9:       price,
			EMA21:      price,
			Crossover:  domain.CrossoverNone,
			PriceVsEMA: domain.PriceBetween,
		}
	}

	ema9 := ema(closes, FastEMAPeriod)
	ema21 := ema(closes, SlowEMAPeriod)

	// Crossover is decided by the last two EMA pairs.
	crossover := domain.CrossoverNone
	if len(closes) > SlowEMAPeriod {
		prev9 := ema(closes[:len(closes)-1], FastEMAPeriod)
		prev21 := ema(closes[:len(closes)-1], SlowEMAPeriod)
		switch {
		case prev9 <= prev21 && ema9 > ema21:
			crossover = domain.CrossoverBullish
		case prev9 >= prev21 && ema9 < ema21:
			crossover = domain.CrossoverBearish
		}
	}

	priceVs := domain.PriceBetween
	switch {
	case price > ema9 && price > ema21:
		priceVs = domain.PriceAboveBoth
	case price < ema9 && price < ema21:
		priceVs = domain.PriceBelowBoth
	}

	return domain.EMAResult{
		EMA9:       ema9,
		EMA21:      ema21,
		Crossover:  crossover,
		PriceVsEMA: priceVs,
	}
}

// ema seeds with a simple moving average over the first period samples and
// exponentially smooths the remainder.
func ema(prices []float64, period int) float64 {
	if len(prices) < period {
		return prices[len(prices)-1]
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	value := sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		value = (prices[i]-value)*multiplier + value
	}

	return value
}
