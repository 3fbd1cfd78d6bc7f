package indicators

import "github.com/solwatch/solwatch/internal/domain"

// Vote weights for confluence scoring. The relative weights and the signal
// thresholds below are exact behavioral contracts.
const (
	voteRSIExtreme      = 2
	voteRSIDivergence   = 1
	voteEMACrossover    = 2
	votePricePosition   = 1
	voteBollingerSignal = 2
	votePercentBExtreme = 1
	voteStochSignal     = 1
	voteStochCrossover  = 2

	maxVotes = 16
)

// percentB extremes that cast an extra vote short of a full band touch.
const (
	percentBLowExtreme  = 0.2
	percentBHighExtreme = 0.8
)

// Confluence aggregates weighted bullish/bearish votes from all indicators
// into a 0-100 score and a trade signal.
func Confluence(rsi domain.RSIResult, ema domain.EMAResult, bb domain.BollingerResult, stoch domain.StochasticResult) (float64, string) {
	var bullish, bearish int

	switch rsi.Signal {
	case domain.SignalOversold:
		bullish += voteRSIExtreme
	case domain.SignalOverbought:
		bearish += voteRSIExtreme
	}
	switch rsi.Divergence {
	case domain.CrossoverBullish:
		bullish += voteRSIDivergence
	case domain.CrossoverBearish:
		bearish += voteRSIDivergence
	}

	switch ema.Crossover {
	case domain.CrossoverBullish:
		bullish += voteEMACrossover
	case domain.CrossoverBearish:
		bearish += voteEMACrossover
	}
	switch ema.PriceVsEMA {
	case domain.PriceAboveBoth:
		bullish += votePricePosition
	case domain.PriceBelowBoth:
		bearish += votePricePosition
	}

	switch bb.Signal {
	case domain.SignalOversold:
		bullish += voteBollingerSignal
	case domain.SignalOverbought:
		bearish += voteBollingerSignal
	}
	if bb.PercentB < percentBLowExtreme {
		bullish += votePercentBExtreme
	} else if bb.PercentB > percentBHighExtreme {
		bearish += votePercentBExtreme
	}

	switch stoch.Signal {
	case domain.SignalOversold:
		bullish += voteStochSignal
	case domain.SignalOverbought:
		bearish += voteStochSignal
	}
	switch stoch.Crossover {
	case domain.CrossoverBullish:
		bullish += voteStochCrossover
	case domain.CrossoverBearish:
		bearish += voteStochCrossover
	}

	score := clamp(50+float64(bullish-bearish)/maxVotes*50, 0, 100)

	return score, confluenceSignal(bullish, bearish)
}

func confluenceSignal(bullish, bearish int) string {
	switch {
	case bullish >= 6 && bearish <= 1:
		return domain.ConfluenceStrongBuy
	case bullish >= 4 && bullish > 2*bearish:
		return domain.ConfluenceBuy
	case bearish >= 6 && bullish <= 1:
		return domain.ConfluenceStrongSell
	case bearish >= 4 && bearish > 2*bullish:
		return domain.ConfluenceSell
	default:
		return domain.ConfluenceNeutral
	}
}
