// Package postgres persists trade plans in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/solwatch/solwatch/internal/domain"
)

// ErrStatusConflict means a conditional update found the plan in a
// different status than expected: another writer got there first. The
// caller treats the in-memory change as discarded.
var ErrStatusConflict = errors.New("plan status changed concurrently")

// ErrPlanNotFound means no plan exists with the given id.
var ErrPlanNotFound = errors.New("plan not found")

const createPlansTable = `
CREATE TABLE IF NOT EXISTS trade_plans (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	token_mint          TEXT NOT NULL,
	token_symbol        TEXT NOT NULL,
	token_decimals      INT NOT NULL,
	amount_sol          TEXT NOT NULL,
	is_limit            BOOLEAN NOT NULL,
	target_price        TEXT,
	threshold_percent   DOUBLE PRECISION,
	max_wait_seconds    BIGINT,
	waiting_since       TIMESTAMPTZ,
	stop_loss_percent   DOUBLE PRECISION NOT NULL,
	take_profit_percent DOUBLE PRECISION NOT NULL,
	stop_loss_price     TEXT NOT NULL DEFAULT '0',
	take_profit_price   TEXT NOT NULL DEFAULT '0',
	protection          JSONB,
	amount_tokens       TEXT NOT NULL DEFAULT '0',
	entry_price_usd     TEXT NOT NULL DEFAULT '0',
	entry_tx_signature  TEXT NOT NULL DEFAULT '',
	exit_price_usd      TEXT NOT NULL DEFAULT '0',
	exit_tx_signature   TEXT NOT NULL DEFAULT '',
	triggered_by        TEXT NOT NULL DEFAULT '',
	triggered_at        TIMESTAMPTZ,
	profit_loss_sol     TEXT NOT NULL DEFAULT '0',
	profit_loss_percent TEXT NOT NULL DEFAULT '0',
	status              TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trade_plans_status ON trade_plans (status);
`

// PlanStore is a pgx-backed plan repository. Status transitions use
// conditional updates keyed on the current status, which makes monitor
// re-processing safe against concurrent writers.
type PlanStore struct {
	pool *pgxpool.Pool
}

// NewPlanStore connects the repository to an existing pool.
func NewPlanStore(pool *pgxpool.Pool) *PlanStore {
	return &PlanStore{pool: pool}
}

// Migrate creates the plan table if it does not exist.
func (s *PlanStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createPlansTable)
	return errors.Wrap(err, "migrate trade_plans")
}

// Create inserts a new plan.
func (s *PlanStore) Create(ctx context.Context, plan *domain.TradePlan) error {
	protection, err := marshalProtection(plan.Protection)
	if err != nil {
		return err
	}

	var (
		targetPrice    *string
		thresholdPct   *float64
		maxWaitSeconds *int64
		waitingSince   *time.Time
	)
	if limit := plan.Order.Limit; limit != nil {
		tp := limit.TargetPrice.String()
		secs := int64(limit.MaxWait / time.Second)
		targetPrice = &tp
		thresholdPct = &limit.ThresholdPercent
		maxWaitSeconds = &secs
		waitingSince = &limit.WaitingSince
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO trade_plans (
			id, user_id, token_mint, token_symbol, token_decimals, amount_sol,
			is_limit, target_price, threshold_percent, max_wait_seconds, waiting_since,
			stop_loss_percent, take_profit_percent, protection, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		plan.ID, plan.UserID, plan.TokenMint, plan.TokenSymbol, plan.TokenDecimals,
		plan.AmountSOL.String(), plan.Order.IsLimit(), targetPrice, thresholdPct,
		maxWaitSeconds, waitingSince, plan.StopLossPercent, plan.TakeProfitPercent,
		protection, string(plan.Status), plan.CreatedAt, plan.UpdatedAt)
	return errors.Wrapf(err, "insert plan %s", plan.ID)
}

// GetByID loads one plan.
func (s *PlanStore) GetByID(ctx context.Context, id string) (*domain.TradePlan, error) {
	row := s.pool.QueryRow(ctx, selectPlans+` WHERE id = $1`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(ErrPlanNotFound, "id %s", id)
	}
	return plan, err
}

// ListByStatus loads all plans in the given status, oldest first.
func (s *PlanStore) ListByStatus(ctx context.Context, status domain.PlanStatus) ([]*domain.TradePlan, error) {
	rows, err := s.pool.Query(ctx, selectPlans+` WHERE status = $1 ORDER BY created_at`, string(status))
	if err != nil {
		return nil, errors.Wrapf(err, "list plans by status %s", status)
	}
	defer rows.Close()

	var plans []*domain.TradePlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, errors.Wrap(rows.Err(), "iterate plans")
}

// Update writes all mutable plan fields, guarded by the expected current
// status. Zero rows affected means a concurrent transition won.
func (s *PlanStore) Update(ctx context.Context, plan *domain.TradePlan, expected domain.PlanStatus) error {
	var triggeredAt *time.Time
	if !plan.TriggeredAt.IsZero() {
		triggeredAt = &plan.TriggeredAt
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE trade_plans SET
			stop_loss_price = $1,
			take_profit_price = $2,
			amount_tokens = $3,
			entry_price_usd = $4,
			entry_tx_signature = $5,
			exit_price_usd = $6,
			exit_tx_signature = $7,
			triggered_by = $8,
			triggered_at = $9,
			profit_loss_sol = $10,
			profit_loss_percent = $11,
			status = $12,
			updated_at = $13
		WHERE id = $14 AND status = $15`,
		plan.StopLossPrice.String(), plan.TakeProfitPrice.String(),
		plan.AmountTokens.String(), plan.EntryPriceUSD.String(), plan.EntryTxSignature,
		plan.ExitPriceUSD.String(), plan.ExitTxSignature, plan.TriggeredBy, triggeredAt,
		plan.ProfitLossSOL.String(), plan.ProfitLossPercent.String(),
		string(plan.Status), plan.UpdatedAt, plan.ID, string(expected))
	if err != nil {
		return errors.Wrapf(err, "update plan %s", plan.ID)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrStatusConflict, "plan %s expected status %s", plan.ID, expected)
	}
	return nil
}

const selectPlans = `
	SELECT id, user_id, token_mint, token_symbol, token_decimals, amount_sol,
		is_limit, target_price, threshold_percent, max_wait_seconds, waiting_since,
		stop_loss_percent, take_profit_percent, stop_loss_price, take_profit_price,
		protection, amount_tokens, entry_price_usd, entry_tx_signature,
		exit_price_usd, exit_tx_signature, triggered_by, triggered_at,
		profit_loss_sol, profit_loss_percent, status, created_at, updated_at
	FROM trade_plans`

func scanPlan(row pgx.Row) (*domain.TradePlan, error) {
	var (
		plan       domain.TradePlan
		status     string
		isLimit    bool
		amountSOL  string
		slPrice    string
		tpPrice    string
		amountTok  string
		entryPrice string
		exitPrice  string
		plSOL      string
		plPct      string

		targetPrice    *string
		thresholdPct   *float64
		maxWaitSeconds *int64
		waitingSince   *time.Time
		triggeredAt    *time.Time
		protection     []byte
	)

	err := row.Scan(&plan.ID, &plan.UserID, &plan.TokenMint, &plan.TokenSymbol,
		&plan.TokenDecimals, &amountSOL, &isLimit, &targetPrice, &thresholdPct,
		&maxWaitSeconds, &waitingSince, &plan.StopLossPercent, &plan.TakeProfitPercent,
		&slPrice, &tpPrice, &protection, &amountTok, &entryPrice, &plan.EntryTxSignature,
		&exitPrice, &plan.ExitTxSignature, &plan.TriggeredBy, &triggeredAt,
		&plSOL, &plPct, &status, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "scan plan")
	}

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&plan.AmountSOL, amountSOL},
		{&plan.StopLossPrice, slPrice},
		{&plan.TakeProfitPrice, tpPrice},
		{&plan.AmountTokens, amountTok},
		{&plan.EntryPriceUSD, entryPrice},
		{&plan.ExitPriceUSD, exitPrice},
		{&plan.ProfitLossSOL, plSOL},
		{&plan.ProfitLossPercent, plPct},
	} {
		*f.dst, err = decimal.NewFromString(f.src)
		if err != nil {
			return nil, errors.Wrapf(err, "parse decimal %q for plan %s", f.src, plan.ID)
		}
	}

	if isLimit && targetPrice != nil {
		target, err := decimal.NewFromString(*targetPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "parse target price for plan %s", plan.ID)
		}
		limit := domain.LimitOrder{TargetPrice: target}
		if thresholdPct != nil {
			limit.ThresholdPercent = *thresholdPct
		}
		if maxWaitSeconds != nil {
			limit.MaxWait = time.Duration(*maxWaitSeconds) * time.Second
		}
		if waitingSince != nil {
			limit.WaitingSince = *waitingSince
		}
		plan.Order = domain.OrderKind{Limit: &limit}
	}

	if triggeredAt != nil {
		plan.TriggeredAt = *triggeredAt
	}
	if len(protection) > 0 {
		var p domain.ProfitProtection
		if err := json.Unmarshal(protection, &p); err != nil {
			return nil, errors.Wrapf(err, "decode protection for plan %s", plan.ID)
		}
		plan.Protection = &p
	}

	plan.Status = domain.PlanStatus(status)
	return &plan, nil
}

func marshalProtection(p *domain.ProfitProtection) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	return data, errors.Wrap(err, "encode protection")
}
