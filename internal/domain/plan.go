package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PlanStatus is the lifecycle state of a trade plan.
type PlanStatus string

const (
	// StatusPending is a market-order plan awaiting explicit activation.
	StatusPending PlanStatus = "pending"
	// StatusWaitingEntry is a registered limit order waiting for its fill condition.
	StatusWaitingEntry PlanStatus = "waiting_entry"
	// StatusActive is an entered position with stop-loss/take-profit monitored.
	StatusActive PlanStatus = "active"
	// StatusCompleted is a position closed by an exit trigger.
	StatusCompleted PlanStatus = "completed"
	// StatusCancelled is a user-cancelled plan.
	StatusCancelled PlanStatus = "cancelled"
	// StatusExpired is a limit order that timed out before filling.
	StatusExpired PlanStatus = "expired"
)

// IsTerminal reports whether the status is final. Terminal plans are never mutated again.
func (s PlanStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// Exit trigger identifiers recorded on completion.
const (
	TriggerStopLoss   = "stop_loss"
	TriggerTakeProfit = "take_profit"
)

// OrderKind distinguishes market orders from limit orders.
// A limit order carries its own fill parameters instead of relying on
// the presence of nullable price fields.
type OrderKind struct {
	Limit *LimitOrder `json:"limit,omitempty"`
}

// IsLimit reports whether the plan entry is a limit order.
func (k OrderKind) IsLimit() bool {
	return k.Limit != nil
}

// LimitOrder holds limit-entry parameters.
type LimitOrder struct {
	// TargetPrice is the desired entry price in USD per token.
	TargetPrice decimal.Decimal `json:"target_price"`
	// ThresholdPercent widens the trigger band above the target.
	ThresholdPercent float64 `json:"threshold_percent"`
	// MaxWait bounds how long the order stays open.
	MaxWait time.Duration `json:"max_wait"`
	// WaitingSince is set when the plan enters waiting_entry.
	WaitingSince time.Time `json:"waiting_since"`
}

// Expired reports whether the order outlived its wait budget at the given time.
func (l *LimitOrder) Expired(now time.Time) bool {
	return now.Sub(l.WaitingSince) > l.MaxWait
}

// ShouldFill evaluates the limit-entry trigger for the quoted price.
// The condition is deliberately asymmetric: it fires when price is at or
// below target plus threshold, and never when price sits above the band.
// A price far below target still fills (never-overpay semantics).
func (l *LimitOrder) ShouldFill(price decimal.Decimal) bool {
	if l.TargetPrice.IsZero() {
		return false
	}
	diffPct := price.Sub(l.TargetPrice).
		Div(l.TargetPrice).
		Mul(decimal.NewFromInt(100))
	return diffPct.LessThanOrEqual(decimal.NewFromFloat(l.ThresholdPercent))
}

// ProfitProtection holds optional trailing-protection parameters.
// The fields are part of the persisted plan schema; the monitor does not
// evaluate them yet, they are an extension point for a further exit trigger.
type ProfitProtection struct {
	TriggerPercent   float64 `json:"trigger_percent"`
	GivebackPercent  float64 `json:"giveback_percent"`
	HardFloorPercent float64 `json:"hard_floor_percent"`
}

// TradePlan is one user's trade intent and its lifecycle state.
// It is mutated only by the monitor cycle once activated, or by explicit
// user actions handled outside this module.
type TradePlan struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	TokenMint     string `json:"token_mint"`
	TokenSymbol   string `json:"token_symbol"`
	TokenDecimals int    `json:"token_decimals"`

	// AmountSOL is the committed capital.
	AmountSOL decimal.Decimal `json:"amount_sol"`

	Order OrderKind `json:"order"`

	StopLossPercent   float64 `json:"stop_loss_percent"`
	TakeProfitPercent float64 `json:"take_profit_percent"`

	// StopLossPrice and TakeProfitPrice are derived from the actual entry
	// price when the plan becomes active.
	StopLossPrice   decimal.Decimal `json:"stop_loss_price"`
	TakeProfitPrice decimal.Decimal `json:"take_profit_price"`

	Protection *ProfitProtection `json:"protection,omitempty"`

	AmountTokens     decimal.Decimal `json:"amount_tokens"`
	EntryPriceUSD    decimal.Decimal `json:"entry_price_usd"`
	EntryTxSignature string          `json:"entry_tx_signature"`

	ExitPriceUSD    decimal.Decimal `json:"exit_price_usd"`
	ExitTxSignature string          `json:"exit_tx_signature"`
	TriggeredBy     string          `json:"triggered_by"`
	TriggeredAt     time.Time       `json:"triggered_at"`

	// ProfitLossSOL and ProfitLossPercent are set exactly once, atomically
	// with the transition into completed.
	ProfitLossSOL     decimal.Decimal `json:"profit_loss_sol"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`

	Status    PlanStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewLimitPlan builds a waiting_entry plan for a limit order.
func NewLimitPlan(userID, mint, symbol string, decimals int, amountSOL decimal.Decimal,
	order LimitOrder, stopLossPct, takeProfitPct float64) (*TradePlan, error) {

	if amountSOL.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("amount_sol must be greater than zero")
	}
	if order.TargetPrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("target entry price must be greater than zero")
	}
	if order.MaxWait <= 0 {
		return nil, errors.New("max wait must be greater than zero")
	}
	if stopLossPct <= 0 || takeProfitPct <= 0 {
		return nil, errors.New("stop-loss and take-profit percents must be greater than zero")
	}

	now := time.Now()
	if order.WaitingSince.IsZero() {
		order.WaitingSince = now
	}

	return &TradePlan{
		ID:                uuid.NewString(),
		UserID:            userID,
		TokenMint:         mint,
		TokenSymbol:       symbol,
		TokenDecimals:     decimals,
		AmountSOL:         amountSOL,
		Order:             OrderKind{Limit: &order},
		StopLossPercent:   stopLossPct,
		TakeProfitPercent: takeProfitPct,
		Status:            StatusWaitingEntry,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// transitions is the legal state-transition table. The monitor owns the
// waiting_entry->expired, waiting_entry->active and active->completed edges;
// cancellation is a user action handled outside this module.
var transitions = map[PlanStatus][]PlanStatus{
	StatusPending:      {StatusWaitingEntry, StatusActive, StatusCancelled},
	StatusWaitingEntry: {StatusActive, StatusExpired, StatusCancelled},
	StatusActive:       {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving to the given status is legal.
func (p *TradePlan) CanTransition(to PlanStatus) bool {
	for _, allowed := range transitions[p.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// MarkActive records an executed entry fill and derives the exit prices.
func (p *TradePlan) MarkActive(entryPrice, amountTokens decimal.Decimal, txSignature string, now time.Time) error {
	if !p.CanTransition(StatusActive) {
		return errors.Errorf("illegal transition %s -> %s for plan %s", p.Status, StatusActive, p.ID)
	}
	if entryPrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("entry price must be greater than zero")
	}
	if amountTokens.LessThanOrEqual(decimal.Zero) {
		return errors.New("token amount must be greater than zero")
	}

	hundred := decimal.NewFromInt(100)
	p.EntryPriceUSD = entryPrice
	p.AmountTokens = amountTokens
	p.EntryTxSignature = txSignature
	p.StopLossPrice = entryPrice.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p.StopLossPercent).Div(hundred)))
	p.TakeProfitPrice = entryPrice.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(p.TakeProfitPercent).Div(hundred)))
	p.Status = StatusActive
	p.UpdatedAt = now
	return nil
}

// MarkCompleted records an executed exit fill together with realized P&L.
func (p *TradePlan) MarkCompleted(trigger string, exitPrice, solReceived decimal.Decimal, txSignature string, now time.Time) error {
	if !p.CanTransition(StatusCompleted) {
		return errors.Errorf("illegal transition %s -> %s for plan %s", p.Status, StatusCompleted, p.ID)
	}
	if trigger != TriggerStopLoss && trigger != TriggerTakeProfit {
		return errors.Errorf("unknown exit trigger %q", trigger)
	}

	p.ExitPriceUSD = exitPrice
	p.ExitTxSignature = txSignature
	p.TriggeredBy = trigger
	p.TriggeredAt = now
	p.ProfitLossSOL = solReceived.Sub(p.AmountSOL)
	p.ProfitLossPercent = p.ProfitLossSOL.Div(p.AmountSOL).Mul(decimal.NewFromInt(100))
	p.Status = StatusCompleted
	p.UpdatedAt = now
	return nil
}

// MarkExpired times out a waiting limit order.
func (p *TradePlan) MarkExpired(now time.Time) error {
	if !p.CanTransition(StatusExpired) {
		return errors.Errorf("illegal transition %s -> %s for plan %s", p.Status, StatusExpired, p.ID)
	}
	p.Status = StatusExpired
	p.UpdatedAt = now
	return nil
}
