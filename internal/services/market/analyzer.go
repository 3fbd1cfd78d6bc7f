package market

import (
	"github.com/pkg/errors"

	"github.com/solwatch/solwatch/internal/domain"
	"github.com/solwatch/solwatch/internal/services/indicators"
)

// Analyzer is the full signal engine: indicators, market structure and
// entry scoring over one candle series. It is stateless and safe for
// concurrent use.
type Analyzer struct{}

// NewAnalyzer creates the analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes the full price analysis for a series. The series must
// hold at least domain.MinCandles candles; shorter input fails with
// domain.ErrInsufficientData. Individual indicators still degrade to
// neutral defaults below their own minimum periods.
func (a *Analyzer) Analyze(series *domain.Series) (*domain.PriceAnalysis, error) {
	if series == nil || series.Len() < domain.MinCandles {
		got := 0
		if series != nil {
			got = series.Len()
		}
		return nil, errors.Wrapf(domain.ErrInsufficientData, "need %d candles, got %d", domain.MinCandles, got)
	}

	closes := series.Closes()
	current := series.Last().Close

	rsi := indicators.RSI(closes, indicators.DefaultRSIPeriod)
	emaRes := indicators.EMASignals(closes)
	bb := indicators.Bollinger(closes, indicators.DefaultBollingerPeriod, indicators.DefaultBollingerK)
	stoch := indicators.Stochastic(series.Highs(), series.Lows(), closes,
		indicators.DefaultStochKPeriod, indicators.DefaultStochDPeriod)
	confluenceScore, confluenceSignal := indicators.Confluence(rsi, emaRes, bb, stoch)

	st := AnalyzeStructure(series)
	es := scoreEntry(series, st)

	return &domain.PriceAnalysis{
		CurrentPrice:  current,
		High24h:       series.HighestHigh(),
		Low24h:        series.LowestLow(),
		Change24h:     series.ChangePercent(),
		Volatility:    st.Volatility,
		Trend:         st.Trend,
		TrendStrength: st.TrendStrength,

		Indicators: domain.IndicatorSet{
			RSI:              rsi,
			EMA:              emaRes,
			Bollinger:        bb,
			Stochastic:       stoch,
			ConfluenceScore:  confluenceScore,
			ConfluenceSignal: confluenceSignal,
		},
		Momentum: st.Momentum,

		Support:    st.Support,
		Resistance: st.Resistance,

		SuggestedEntry:      current,
		SuggestedStopLoss:   es.suggestedSL,
		SuggestedTakeProfit: es.suggestedTP,
		StopLossPercent:     es.stopLossPct,
		TakeProfitPercent:   es.takeProfitPct,

		OptimalEntry:          es.optimalEntry,
		OptimalEntryReason:    es.optimalReason,
		CurrentVsOptimal:      es.currentVsOptimal,
		EntrySignal:           es.entrySignal,
		ExpectedProfitCurrent: es.expectedCurrent,
		ExpectedProfitOptimal: es.expectedOptimal,

		ScalpingScore:   es.scalpScore,
		ScalpingVerdict: es.scalpVerdict,
		ScalpingReason:  es.scalpReason,
	}, nil
}
