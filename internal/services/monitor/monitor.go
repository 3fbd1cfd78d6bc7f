// Package monitor drives the trade-plan lifecycle: it evaluates
// limit-order fills for waiting_entry plans and stop-loss/take-profit
// exits for active plans, executing swaps through the exchange
// collaborator. One invocation of RunCycle is one monitoring pass.
package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/solwatch/solwatch/internal/domain"
	"github.com/solwatch/solwatch/internal/metrics"
)

// DefaultPlanInterval spaces plan evaluations to respect the exchange
// collaborator's rate limits.
const DefaultPlanInterval = 500 * time.Millisecond

// PlanStore reads and conditionally updates persisted trade plans.
// Update must only apply when the stored status still equals expected,
// which makes re-processing across cycles idempotent.
type PlanStore interface {
	ListByStatus(ctx context.Context, status domain.PlanStatus) ([]*domain.TradePlan, error)
	Update(ctx context.Context, plan *domain.TradePlan, expected domain.PlanStatus) error
}

// Quoter fetches swap quotes from the exchange aggregator.
type Quoter interface {
	// GetQuote quotes a buy: solAmount of SOL into the token.
	GetQuote(ctx context.Context, tokenMint string, solAmount decimal.Decimal, taker string) (*domain.Quote, error)
	// GetSellQuote quotes a sell: tokenAmount of the token back into SOL.
	GetSellQuote(ctx context.Context, tokenMint string, tokenAmount decimal.Decimal, taker string) (*domain.Quote, error)
}

// Executor signs and submits a quoted swap transaction.
type Executor interface {
	SignAndExecute(ctx context.Context, quote *domain.Quote, walletSecret []byte) (*domain.ExecutionResult, error)
}

// KeyVault resolves wallet material for a user. Secrets are decrypted at
// the moment of use and must never be logged or persisted in plaintext.
type KeyVault interface {
	Address(ctx context.Context, userID string) (string, error)
	Secret(ctx context.Context, userID string) ([]byte, error)
}

// Ledger appends executed trades to the append-only trade ledger.
type Ledger interface {
	Append(record domain.TradeRecord) error
}

// SnapshotStore appends quoted prices for audit and history.
type SnapshotStore interface {
	Append(snap domain.PriceSnapshot) error
}

// Notifier delivers best-effort trade-completion notifications.
type Notifier interface {
	TradeCompleted(ctx context.Context, plan *domain.TradePlan) error
}

// Result actions reported per plan.
const (
	ActionExpired   = "expired"
	ActionEntered   = "entered"
	ActionWaiting   = "waiting"
	ActionCompleted = "completed"
	ActionHolding   = "holding"
	ActionSkipped   = "skipped"
)

// PlanResult is the per-plan outcome of one cycle.
type PlanResult struct {
	PlanID  string
	Action  string
	Success bool
	Err     error
}

// Monitor evaluates all live plans once per RunCycle call. The schedule
// itself (ticker, cron) lives outside this package.
type Monitor struct {
	plans     PlanStore
	quoter    Quoter
	executor  Executor
	vault     KeyVault
	ledger    Ledger
	snapshots SnapshotStore
	notifier  Notifier
	limiter   *rate.Limiter
	l         *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates a monitor with the given collaborators.
func New(plans PlanStore, quoter Quoter, executor Executor, vault KeyVault,
	ledger Ledger, snapshots SnapshotStore, notifier Notifier,
	planInterval time.Duration, l *zap.Logger) *Monitor {

	if planInterval <= 0 {
		planInterval = DefaultPlanInterval
	}

	return &Monitor{
		plans:     plans,
		quoter:    quoter,
		executor:  executor,
		vault:     vault,
		ledger:    ledger,
		snapshots: snapshots,
		notifier:  notifier,
		limiter:   rate.NewLimiter(rate.Every(planInterval), 1),
		l:         l,
		now:       time.Now,
	}
}

// RunCycle processes all waiting_entry plans, then all active plans.
// Each plan is isolated: a failure for one plan is recorded in its result
// and never aborts the others. RunCycle returns an error only when the
// plan listing itself fails.
func (m *Monitor) RunCycle(ctx context.Context) ([]PlanResult, error) {
	metrics.CyclesTotal.Inc()

	waiting, err := m.plans.ListByStatus(ctx, domain.StatusWaitingEntry)
	if err != nil {
		return nil, errors.Wrap(err, "list waiting_entry plans")
	}
	active, err := m.plans.ListByStatus(ctx, domain.StatusActive)
	if err != nil {
		return nil, errors.Wrap(err, "list active plans")
	}

	results := make([]PlanResult, 0, len(waiting)+len(active))

	for _, plan := range waiting {
		if err := m.limiter.Wait(ctx); err != nil {
			return results, errors.Wrap(err, "rate limiter interrupted")
		}
		results = append(results, m.processIsolated(ctx, plan, m.processWaitingEntry))
	}
	for _, plan := range active {
		if err := m.limiter.Wait(ctx); err != nil {
			return results, errors.Wrap(err, "rate limiter interrupted")
		}
		results = append(results, m.processIsolated(ctx, plan, m.processActive))
	}

	for _, r := range results {
		metrics.PlansEvaluated.Inc()
		if !r.Success {
			metrics.PlanFailures.Inc()
			m.l.Warn("plan evaluation failed",
				zap.String("plan_id", r.PlanID),
				zap.String("action", r.Action),
				zap.Error(r.Err))
		}
	}

	return results, nil
}

type processFn func(ctx context.Context, plan *domain.TradePlan) PlanResult

// processIsolated converts panics in a single plan's processing into a
// failed result so the rest of the cycle continues.
func (m *Monitor) processIsolated(ctx context.Context, plan *domain.TradePlan, fn processFn) (result PlanResult) {
	defer func() {
		if r := recover(); r != nil {
			result = PlanResult{
				PlanID: plan.ID,
				Err:    errors.Errorf("panic while processing plan %s: %v", plan.ID, r),
			}
		}
	}()
	return fn(ctx, plan)
}

// processWaitingEntry evaluates expiry and the limit-fill condition for
// one waiting plan, executing the buy swap on trigger.
func (m *Monitor) processWaitingEntry(ctx context.Context, plan *domain.TradePlan) PlanResult {
	fail := func(action string, err error) PlanResult {
		return PlanResult{PlanID: plan.ID, Action: action, Err: err}
	}

	// A plan that already left waiting_entry is a no-op: the state machine
	// only transitions from the pre-trigger state.
	if plan.Status != domain.StatusWaitingEntry {
		return PlanResult{PlanID: plan.ID, Action: ActionSkipped, Success: true}
	}
	limit := plan.Order.Limit
	if limit == nil {
		return fail(ActionSkipped, errors.Errorf("waiting_entry plan %s has no limit order", plan.ID))
	}

	now := m.now()

	// Expiry is checked before any external call.
	if limit.Expired(now) {
		if err := plan.MarkExpired(now); err != nil {
			return fail(ActionExpired, err)
		}
		if err := m.plans.Update(ctx, plan, domain.StatusWaitingEntry); err != nil {
			return fail(ActionExpired, errors.Wrap(err, "persist expiry"))
		}
		m.l.Info("limit order expired",
			zap.String("plan_id", plan.ID),
			zap.String("token", plan.TokenSymbol),
			zap.Duration("max_wait", limit.MaxWait))
		return PlanResult{PlanID: plan.ID, Action: ActionExpired, Success: true}
	}

	taker, err := m.vault.Address(ctx, plan.UserID)
	if err != nil {
		return fail(ActionWaiting, errors.Wrap(err, "resolve wallet address"))
	}

	quote, err := m.quoter.GetQuote(ctx, plan.TokenMint, plan.AmountSOL, taker)
	if err != nil {
		return fail(ActionWaiting, errors.Wrap(err, "fetch buy quote"))
	}
	price, err := quote.PricePerToken()
	if err != nil {
		return fail(ActionWaiting, errors.Wrap(err, "derive quote price"))
	}
	m.snapshotPrice(plan.TokenMint, price, now)

	if !limit.ShouldFill(price) {
		return PlanResult{PlanID: plan.ID, Action: ActionWaiting, Success: true}
	}

	exec, err := m.execute(ctx, plan.UserID, quote)
	if err != nil {
		// Plan untouched: the fill is retried on the next cycle.
		return fail(ActionWaiting, err)
	}

	// Actual fill price comes from the executed output amount.
	entryPrice := quote.OutUSDValue.Div(exec.OutputAmount)
	if err := plan.MarkActive(entryPrice, exec.OutputAmount, exec.Signature, now); err != nil {
		return fail(ActionEntered, err)
	}
	if err := m.plans.Update(ctx, plan, domain.StatusWaitingEntry); err != nil {
		return fail(ActionEntered, errors.Wrap(err, "persist entry fill"))
	}

	m.appendLedger(domain.TradeRecord{
		PlanID:       plan.ID,
		UserID:       plan.UserID,
		TokenMint:    plan.TokenMint,
		TokenSymbol:  plan.TokenSymbol,
		Side:         domain.SideBuy,
		PriceUSD:     entryPrice,
		AmountSOL:    plan.AmountSOL,
		AmountTokens: exec.OutputAmount,
		TxSignature:  exec.Signature,
		ExecutedAt:   now,
	})
	metrics.TradesOpened.Inc()

	m.l.Info("limit entry filled",
		zap.String("plan_id", plan.ID),
		zap.String("token", plan.TokenSymbol),
		zap.String("entry_price_usd", entryPrice.String()),
		zap.String("tx", exec.Signature))

	return PlanResult{PlanID: plan.ID, Action: ActionEntered, Success: true}
}

// processActive evaluates the stop-loss/take-profit exits for one active
// plan, executing the full-size sell swap on trigger.
func (m *Monitor) processActive(ctx context.Context, plan *domain.TradePlan) PlanResult {
	fail := func(action string, err error) PlanResult {
		return PlanResult{PlanID: plan.ID, Action: action, Err: err}
	}

	if plan.Status != domain.StatusActive {
		return PlanResult{PlanID: plan.ID, Action: ActionSkipped, Success: true}
	}

	now := m.now()

	taker, err := m.vault.Address(ctx, plan.UserID)
	if err != nil {
		return fail(ActionHolding, errors.Wrap(err, "resolve wallet address"))
	}

	if plan.AmountTokens.LessThanOrEqual(decimal.Zero) {
		return fail(ActionHolding, errors.Errorf("active plan %s has no token position", plan.ID))
	}

	quote, err := m.quoter.GetSellQuote(ctx, plan.TokenMint, plan.AmountTokens, taker)
	if err != nil {
		return fail(ActionHolding, errors.Wrap(err, "fetch sell quote"))
	}

	// The sell quote's output is SOL, so the token price is the quoted USD
	// value spread over the position size.
	price := quote.OutUSDValue.Div(plan.AmountTokens)
	m.snapshotPrice(plan.TokenMint, price, now)

	var trigger string
	switch {
	case price.LessThanOrEqual(plan.StopLossPrice):
		trigger = domain.TriggerStopLoss
	case price.GreaterThanOrEqual(plan.TakeProfitPrice):
		trigger = domain.TriggerTakeProfit
	default:
		return PlanResult{PlanID: plan.ID, Action: ActionHolding, Success: true}
	}

	exec, err := m.execute(ctx, plan.UserID, quote)
	if err != nil {
		// Plan stays active and the exit is retried next cycle.
		return fail(ActionHolding, err)
	}

	exitPrice := price
	solReceived := exec.OutputAmount
	if err := plan.MarkCompleted(trigger, exitPrice, solReceived, exec.Signature, now); err != nil {
		return fail(ActionCompleted, err)
	}
	if err := m.plans.Update(ctx, plan, domain.StatusActive); err != nil {
		return fail(ActionCompleted, errors.Wrap(err, "persist exit fill"))
	}

	m.appendLedger(domain.TradeRecord{
		PlanID:       plan.ID,
		UserID:       plan.UserID,
		TokenMint:    plan.TokenMint,
		TokenSymbol:  plan.TokenSymbol,
		Side:         domain.SideSell,
		PriceUSD:     exitPrice,
		AmountSOL:    solReceived,
		AmountTokens: plan.AmountTokens,
		TxSignature:  exec.Signature,
		TriggeredBy:  trigger,
		ExecutedAt:   now,
	})
	metrics.TradesClosed.Inc()

	// Notification is best effort: the completion is already durable.
	if err := m.notifier.TradeCompleted(ctx, plan); err != nil {
		m.l.Warn("trade completion notification failed",
			zap.String("plan_id", plan.ID), zap.Error(err))
	}

	m.l.Info("position closed",
		zap.String("plan_id", plan.ID),
		zap.String("token", plan.TokenSymbol),
		zap.String("trigger", trigger),
		zap.String("pnl_sol", plan.ProfitLossSOL.String()),
		zap.String("pnl_percent", plan.ProfitLossPercent.String()))

	return PlanResult{PlanID: plan.ID, Action: ActionCompleted, Success: true}
}

// execute validates the quote transaction, resolves the signing secret and
// runs the swap. All failures are transient from the caller's perspective.
func (m *Monitor) execute(ctx context.Context, userID string, quote *domain.Quote) (*domain.ExecutionResult, error) {
	if quote.Transaction == "" {
		return nil, domain.ErrNoTransaction
	}

	secret, err := m.vault.Secret(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt wallet secret")
	}

	exec, err := m.executor.SignAndExecute(ctx, quote, secret)
	if err != nil {
		return nil, errors.Wrap(err, "execute swap")
	}
	if !exec.Succeeded() {
		return nil, errors.Errorf("swap execution failed: %s", exec.Err)
	}
	if exec.OutputAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("swap execution returned non-positive output amount")
	}

	return exec, nil
}

func (m *Monitor) snapshotPrice(mint string, price decimal.Decimal, now time.Time) {
	err := m.snapshots.Append(domain.PriceSnapshot{
		TokenMint: mint,
		PriceUSD:  price,
		TakenAt:   now,
	})
	if err != nil {
		m.l.Debug("price snapshot append failed", zap.String("mint", mint), zap.Error(err))
	}
}

func (m *Monitor) appendLedger(record domain.TradeRecord) {
	record.ID = uuid.NewString()
	if err := m.ledger.Append(record); err != nil {
		// The plan update is already committed; the ledger gap is logged,
		// not rolled back.
		m.l.Error("trade ledger append failed",
			zap.String("plan_id", record.PlanID), zap.Error(err))
	}
}
