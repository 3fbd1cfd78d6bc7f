package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade sides recorded in the ledger.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// TradeRecord is one append-only ledger entry for an executed swap.
type TradeRecord struct {
	ID           string          `json:"id"`
	PlanID       string          `json:"plan_id"`
	UserID       string          `json:"user_id"`
	TokenMint    string          `json:"token_mint"`
	TokenSymbol  string          `json:"token_symbol"`
	Side         string          `json:"side"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	AmountSOL    decimal.Decimal `json:"amount_sol"`
	AmountTokens decimal.Decimal `json:"amount_tokens"`
	TxSignature  string          `json:"tx_signature"`
	TriggeredBy  string          `json:"triggered_by,omitempty"`
	ExecutedAt   time.Time       `json:"executed_at"`
}

// PriceSnapshot is one append-only audit record of a quoted price.
type PriceSnapshot struct {
	TokenMint string          `json:"token_mint"`
	PriceUSD  decimal.Decimal `json:"price_usd"`
	TakenAt   time.Time       `json:"taken_at"`
}
