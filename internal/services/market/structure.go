// Package market turns candle series into market-structure analysis and
// entry scoring: trend, volatility, support/resistance, swing-point
// momentum, optimal entry estimation and scalping suitability.
package market

import (
	"math"

	"github.com/solwatch/solwatch/internal/domain"
)

const (
	trendWindow     = 8
	structureWindow = 16

	trendDiffThreshold = 2.0
)

// Structure is the market-structure view of a candle series.
type Structure struct {
	Volatility    float64
	Trend         string
	TrendStrength float64
	Support       float64
	Resistance    float64
	// LastSwingLow is the price of the most recent swing-low candle,
	// zero when the series has none.
	LastSwingLow float64
	Momentum     domain.MomentumAnalysis
}

// AnalyzeStructure computes trend, volatility, support/resistance and
// swing-point momentum for the series.
func AnalyzeStructure(series *domain.Series) Structure {
	closes := series.Closes()

	volatility := volatilityPercent(closes)
	trend, strength := classifyTrend(closes)
	support, resistance := supportResistance(series)

	swings := detectSwings(series)
	momentum := analyzeMomentum(swings, series.ChangePercent(), volatility)

	return Structure{
		Volatility:    volatility,
		Trend:         trend,
		TrendStrength: strength,
		Support:       support,
		Resistance:    resistance,
		LastSwingLow:  swings.lastSwingLow,
		Momentum:      momentum,
	}
}

// volatilityPercent is the standard deviation of closes as a percent of
// their mean.
func volatilityPercent(closes []float64) float64 {
	var sum float64
	for _, c := range closes {
		sum += c
	}
	mean := sum / float64(len(closes))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, c := range closes {
		variance += math.Pow(c-mean, 2)
	}
	sd := math.Sqrt(variance / float64(len(closes)))

	return sd / mean * 100
}

// classifyTrend compares the mean of the last 8 closes against the mean of
// the 8 before them. A shift above 2 percent reads as a directional trend.
func classifyTrend(closes []float64) (string, float64) {
	recentStart := len(closes) - trendWindow
	priorStart := len(closes) - structureWindow
	if priorStart < 0 {
		priorStart = 0
	}

	recent := closes[recentStart:]
	prior := closes[priorStart:recentStart]

	var recentSum float64
	for _, c := range recent {
		recentSum += c
	}
	recentAvg := recentSum / float64(len(recent))

	var priorSum float64
	for _, c := range prior {
		priorSum += c
	}
	priorAvg := priorSum / float64(len(prior))

	if priorAvg == 0 {
		return domain.TrendSideways, 0
	}

	diff := (recentAvg - priorAvg) / priorAvg * 100
	switch {
	case diff > trendDiffThreshold:
		return domain.TrendBullish, math.Min(100, math.Abs(diff)*10)
	case diff < -trendDiffThreshold:
		return domain.TrendBearish, math.Min(100, math.Abs(diff)*10)
	default:
		return domain.TrendSideways, 100 - math.Abs(diff)*20
	}
}

// supportResistance takes the extremes of the last 16 candles.
func supportResistance(series *domain.Series) (float64, float64) {
	candles := series.Candles()
	if len(candles) > structureWindow {
		candles = candles[len(candles)-structureWindow:]
	}

	support := candles[0].Low
	resistance := candles[0].High
	for _, c := range candles[1:] {
		if c.Low < support {
			support = c.Low
		}
		if c.High > resistance {
			resistance = c.High
		}
	}
	return support, resistance
}

type swingPoints struct {
	higherHighs  int
	lowerHighs   int
	higherLows   int
	lowerLows    int
	lastSwingLow float64
}

// detectSwings finds local extrema relative to immediate neighbors and
// counts direction changes between consecutive swings.
func detectSwings(series *domain.Series) swingPoints {
	candles := series.Candles()

	var sp swingPoints
	var swingHighs, swingLows []float64

	for i := 1; i < len(candles)-1; i++ {
		if candles[i].High > candles[i-1].High && candles[i].High > candles[i+1].High {
			swingHighs = append(swingHighs, candles[i].High)
		}
		if candles[i].Low < candles[i-1].Low && candles[i].Low < candles[i+1].Low {
			swingLows = append(swingLows, candles[i].Low)
		}
	}

	for i := 1; i < len(swingHighs); i++ {
		if swingHighs[i] > swingHighs[i-1] {
			sp.higherHighs++
		} else {
			sp.lowerHighs++
		}
	}
	for i := 1; i < len(swingLows); i++ {
		if swingLows[i] > swingLows[i-1] {
			sp.higherLows++
		} else {
			sp.lowerLows++
		}
	}

	if len(swingLows) > 0 {
		sp.lastSwingLow = swingLows[len(swingLows)-1]
	}

	return sp
}

// analyzeMomentum derives direction, consistency and the momentum score
// from swing structure and the 24h change.
func analyzeMomentum(sp swingPoints, change24h, volatility float64) domain.MomentumAnalysis {
	bullishSwings := sp.higherHighs + sp.higherLows
	bearishSwings := sp.lowerHighs + sp.lowerLows
	total := bullishSwings + bearishSwings

	direction := domain.DirectionFlat
	var consistency float64
	if total > 0 {
		dominant := bullishSwings
		if bearishSwings > bullishSwings {
			dominant = bearishSwings
			direction = domain.DirectionDown
		} else if bullishSwings > bearishSwings {
			direction = domain.DirectionUp
		}
		consistency = float64(dominant) / float64(total) * 100
	}

	// Score leans on the 24h change and is boosted when swing structure
	// confirms the move.
	score := math.Min(60, math.Abs(change24h)*5)
	confirms := (change24h > 0 && direction == domain.DirectionUp) ||
		(change24h < 0 && direction == domain.DirectionDown)
	if confirms && consistency >= 50 {
		score += 20
	}
	if change24h > 0 && sp.higherLows >= 2 {
		score += 10
	}
	score = math.Min(100, score)

	signal := domain.MomentumWeak
	switch {
	case score >= 70:
		signal = domain.MomentumStrong
	case score >= 40:
		signal = domain.MomentumBuilding
	}

	isPlay := (change24h >= 10 && sp.higherLows >= 2) ||
		(change24h >= 5 && consistency >= 50 && volatility < 5)

	return domain.MomentumAnalysis{
		Direction:      direction,
		Consistency:    consistency,
		HigherHighs:    sp.higherHighs,
		HigherLows:     sp.higherLows,
		LowerHighs:     sp.lowerHighs,
		LowerLows:      sp.lowerLows,
		Score:          score,
		Signal:         signal,
		IsMomentumPlay: isPlay,
	}
}
