package market

import (
	"fmt"
	"math"

	"github.com/solwatch/solwatch/internal/domain"
)

// Volume thresholds (quote units per candle) for the scalping score.
const (
	highVolume = 50_000.0
	okVolume   = 10_000.0
	thinVolume = 1_000.0
)

// Scalping verdict bands.
const (
	scalpGoodScore     = 70.0
	scalpModerateScore = 40.0
)

// entryScore is the entry-quality view of a candle series.
type entryScore struct {
	vwap             float64
	optimalEntry     float64
	optimalReason    string
	currentVsOptimal float64
	suggestedSL      float64
	suggestedTP      float64
	stopLossPct      float64
	takeProfitPct    float64
	entrySignal      string
	expectedCurrent  float64
	expectedOptimal  float64
	scalpScore       float64
	scalpVerdict     string
	scalpReason      string
}

// scoreEntry combines indicator and structure outputs into the entry
// verdict: optimal entry price, entry signal, suggested exits and the
// scalping suitability score.
func scoreEntry(series *domain.Series, st Structure) entryScore {
	current := series.Last().Close

	var es entryScore
	es.vwap = vwap(series)
	es.optimalEntry, es.optimalReason = optimalEntry(current, st, es.vwap)

	if es.optimalEntry > 0 {
		es.currentVsOptimal = (current - es.optimalEntry) / es.optimalEntry * 100
	}

	es.suggestedSL, es.suggestedTP = suggestedExits(current, st)
	if current > 0 {
		es.stopLossPct = (current - es.suggestedSL) / current * 100
		es.takeProfitPct = (es.suggestedTP - current) / current * 100
	}

	es.expectedCurrent = es.takeProfitPct
	if es.optimalEntry > 0 {
		es.expectedOptimal = (es.suggestedTP - es.optimalEntry) / es.optimalEntry * 100
	}

	es.scalpScore, es.scalpVerdict, es.scalpReason = scalpingScore(series, st, es.stopLossPct, es.takeProfitPct)
	es.entrySignal = entrySignal(st, es)

	return es
}

// vwap is the volume-weighted average price over the whole series.
func vwap(series *domain.Series) float64 {
	var pv, vol float64
	for _, c := range series.Candles() {
		pv += c.Close * c.Volume
		vol += c.Volume
	}
	if vol == 0 {
		return series.Last().Close
	}
	return pv / vol
}

// optimalEntry picks the entry level by trend regime.
func optimalEntry(current float64, st Structure, vwapPrice float64) (float64, string) {
	switch st.Trend {
	case domain.TrendBullish:
		entry := math.Max(st.LastSwingLow, vwapPrice*0.995)
		return entry, "pullback to swing low or just under VWAP in an uptrend"
	case domain.TrendBearish:
		return st.Support * 1.01, "just above support in a downtrend"
	default:
		return st.Support + 0.2*(st.Resistance-st.Support), "lower fifth of the sideways range"
	}
}

// suggestedExits derives stop-loss and take-profit levels from volatility,
// bounded by the structure levels.
func suggestedExits(current float64, st Structure) (float64, float64) {
	sl := math.Max(current*(1-2*st.Volatility/100), st.Support*0.98)
	tp := math.Min(current*(1+3*st.Volatility/100), st.Resistance*1.02)
	return sl, tp
}

// entrySignal evaluates the precedence chain top-down; first match wins.
func entrySignal(st Structure, es entryScore) string {
	buffer := 0.5 * st.Volatility

	switch {
	case es.scalpVerdict == domain.ScalpPoor:
		return domain.EntryAvoid
	case st.Momentum.IsMomentumPlay:
		return domain.EntryMomentumBuy
	case st.Momentum.Signal == domain.MomentumBuilding && math.Abs(es.currentVsOptimal) <= 3*buffer:
		return domain.EntryBuy
	case es.currentVsOptimal <= -buffer:
		return domain.EntryStrongBuy
	case es.currentVsOptimal <= buffer:
		return domain.EntryBuy
	default:
		return domain.EntryWait
	}
}

type factor struct {
	delta  float64
	reason string
}

// scalpingScore rates short-horizon trade suitability on a 0-100 scale.
// The additive weights are exact contracts.
func scalpingScore(series *domain.Series, st Structure, slPct, tpPct float64) (float64, string, string) {
	score := 50.0

	var factors []factor
	add := func(delta float64, reason string) {
		score += delta
		factors = append(factors, factor{delta, reason})
	}

	vol := st.Volatility
	switch {
	case vol >= 2 && vol <= 10:
		add(20, "volatility in the ideal scalping range")
	case vol > 10 && vol <= 20:
		add(10, "elevated but tradable volatility")
	case vol > 20:
		add(-10, "volatility too high for controlled exits")
	case st.Momentum.IsMomentumPlay:
		// steady low-volatility climb
		add(15, "steady low-volatility momentum climb")
	case vol < 1:
		add(-20, "volatility too low for meaningful moves")
	default:
		add(-10, "volatility below the scalping range")
	}

	volumes := series.Volumes()
	var avgVolume float64
	for _, v := range volumes {
		avgVolume += v
	}
	avgVolume /= float64(len(volumes))
	switch {
	case avgVolume >= highVolume:
		add(15, "deep traded volume")
	case avgVolume >= okVolume:
		add(5, "adequate traded volume")
	case avgVolume < thinVolume:
		add(-15, "volume too thin to fill cleanly")
	}

	if st.TrendStrength > 50 {
		add(15, "strong directional trend")
	}

	if st.Momentum.IsMomentumPlay {
		add(15, "confirmed momentum play")
	} else if st.Momentum.Signal == domain.MomentumBuilding {
		add(10, "momentum building")
	}

	if slPct > 0 {
		rr := tpPct / slPct
		switch {
		case rr >= 2:
			add(10, "risk/reward at least 2:1")
		case rr >= 1.5:
			add(5, "risk/reward at least 1.5:1")
		case rr < 1:
			add(-20, "risk/reward below 1:1")
		}
	}

	score = math.Max(0, math.Min(100, score))

	verdict := domain.ScalpPoor
	switch {
	case score >= scalpGoodScore:
		verdict = domain.ScalpGood
	case score >= scalpModerateScore:
		verdict = domain.ScalpModerate
	}

	return score, verdict, fmt.Sprintf("%s: %s", verdict, dominantFactor(factors))
}

func dominantFactor(factors []factor) string {
	if len(factors) == 0 {
		return "no standout factors"
	}
	dominant := factors[0]
	for _, f := range factors[1:] {
		if math.Abs(f.delta) > math.Abs(dominant.delta) {
			dominant = f
		}
	}
	return dominant.reason
}
