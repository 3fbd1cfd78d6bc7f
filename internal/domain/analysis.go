package domain

// Indicator signal values shared across the analysis engine.
const (
	SignalOverbought = "overbought"
	SignalOversold   = "oversold"
	SignalNeutral    = "neutral"
	SignalSqueeze    = "squeeze"

	CrossoverBullish = "bullish"
	CrossoverBearish = "bearish"
	CrossoverNone    = "none"

	TrendBullish  = "bullish"
	TrendBearish  = "bearish"
	TrendSideways = "sideways"

	PriceAboveBoth = "above_both"
	PriceBelowBoth = "below_both"
	PriceBetween   = "between"
)

// Confluence signal values.
const (
	ConfluenceStrongBuy  = "strong_buy"
	ConfluenceBuy        = "buy"
	ConfluenceNeutral    = "neutral"
	ConfluenceSell       = "sell"
	ConfluenceStrongSell = "strong_sell"
)

// Entry signal values, ordered by spec precedence.
const (
	EntryStrongBuy   = "strong_buy"
	EntryBuy         = "buy"
	EntryMomentumBuy = "momentum_buy"
	EntryWait        = "wait"
	EntryAvoid       = "avoid"
)

// Momentum signal values.
const (
	MomentumStrong   = "strong"
	MomentumBuilding = "building"
	MomentumWeak     = "weak"
)

// Momentum direction values.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// Scalping verdict values.
const (
	ScalpGood     = "good"
	ScalpModerate = "moderate"
	ScalpPoor     = "poor"
)

// RSIResult is the Wilder RSI output.
type RSIResult struct {
	Value      float64 `json:"value"`
	Signal     string  `json:"signal"`
	Divergence string  `json:"divergence"`
}

// EMAResult carries the EMA 9/21 pair and their relationship to price.
type EMAResult struct {
	EMA9       float64 `json:"ema9"`
	EMA21      float64 `json:"ema21"`
	Crossover  string  `json:"crossover"`
	PriceVsEMA string  `json:"price_vs_ema"`
}

// BollingerResult carries the Bollinger Bands output.
type BollingerResult struct {
	Upper     float64 `json:"upper"`
	Middle    float64 `json:"middle"`
	Lower     float64 `json:"lower"`
	Bandwidth float64 `json:"bandwidth"`
	PercentB  float64 `json:"percent_b"`
	Signal    string  `json:"signal"`
}

// StochasticResult carries the stochastic oscillator output.
type StochasticResult struct {
	K         float64 `json:"k"`
	D         float64 `json:"d"`
	Signal    string  `json:"signal"`
	Crossover string  `json:"crossover"`
}

// IndicatorSet aggregates all indicators plus the confluence verdict.
type IndicatorSet struct {
	RSI              RSIResult        `json:"rsi"`
	EMA              EMAResult        `json:"ema"`
	Bollinger        BollingerResult  `json:"bollinger"`
	Stochastic       StochasticResult `json:"stochastic"`
	ConfluenceScore  float64          `json:"confluence_score"`
	ConfluenceSignal string           `json:"confluence_signal"`
}

// MomentumAnalysis describes swing-point momentum structure.
type MomentumAnalysis struct {
	Direction      string  `json:"direction"`
	Consistency    float64 `json:"consistency"`
	HigherHighs    int     `json:"higher_highs"`
	HigherLows     int     `json:"higher_lows"`
	LowerHighs     int     `json:"lower_highs"`
	LowerLows      int     `json:"lower_lows"`
	Score          float64 `json:"score"`
	Signal         string  `json:"signal"`
	IsMomentumPlay bool    `json:"is_momentum_play"`
}

// PriceAnalysis is the full engine output for one token at one point in time.
// All fields are derived and recomputed fresh on each call.
type PriceAnalysis struct {
	CurrentPrice  float64 `json:"current_price"`
	High24h       float64 `json:"high_24h"`
	Low24h        float64 `json:"low_24h"`
	Change24h     float64 `json:"change_24h"`
	Volatility    float64 `json:"volatility"`
	Trend         string  `json:"trend"`
	TrendStrength float64 `json:"trend_strength"`

	Indicators IndicatorSet     `json:"indicators"`
	Momentum   MomentumAnalysis `json:"momentum"`

	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`

	SuggestedEntry      float64 `json:"suggested_entry"`
	SuggestedStopLoss   float64 `json:"suggested_stop_loss"`
	SuggestedTakeProfit float64 `json:"suggested_take_profit"`
	StopLossPercent     float64 `json:"stop_loss_percent"`
	TakeProfitPercent   float64 `json:"take_profit_percent"`

	OptimalEntry          float64 `json:"optimal_entry"`
	OptimalEntryReason    string  `json:"optimal_entry_reason"`
	CurrentVsOptimal      float64 `json:"current_vs_optimal_percent"`
	EntrySignal           string  `json:"entry_signal"`
	ExpectedProfitCurrent float64 `json:"expected_profit_current"`
	ExpectedProfitOptimal float64 `json:"expected_profit_optimal"`

	ScalpingScore   float64 `json:"scalping_score"`
	ScalpingVerdict string  `json:"scalping_verdict"`
	ScalpingReason  string  `json:"scalping_reason"`
}
