package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrNoTransaction means a quote succeeded but carried no executable
// transaction. Treated as transient: the plan is retried on the next cycle.
var ErrNoTransaction = errors.New("quote returned no executable transaction")

// Quote is a swap quote from the exchange aggregator.
type Quote struct {
	// OutAmount is the amount of the output asset the swap would produce.
	OutAmount decimal.Decimal `json:"out_amount"`
	// OutUSDValue is the USD value of the output amount.
	OutUSDValue decimal.Decimal `json:"out_usd_value"`
	// Transaction is the base64-encoded unsigned swap transaction, if any.
	Transaction string `json:"transaction,omitempty"`
}

// PricePerToken derives the USD price of one output token.
func (q *Quote) PricePerToken() (decimal.Decimal, error) {
	if q.OutAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, errors.New("quote out amount must be greater than zero")
	}
	return q.OutUSDValue.Div(q.OutAmount), nil
}

// Execution statuses reported by the execution service.
const (
	ExecSuccess = "Success"
	ExecFailure = "Failure"
)

// ExecutionResult is the outcome of signing and executing a swap.
type ExecutionResult struct {
	Status       string          `json:"status"`
	Signature    string          `json:"signature"`
	OutputAmount decimal.Decimal `json:"output_amount"`
	Err          string          `json:"error,omitempty"`
}

// Succeeded reports whether the swap landed.
func (r *ExecutionResult) Succeeded() bool {
	return r.Status == ExecSuccess
}
