// Package notifier delivers best-effort trade notifications.
package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/solwatch/solwatch/internal/domain"
)

// LogNotifier only logs completions. Useful when no delivery channel is
// configured.
type LogNotifier struct {
	l *zap.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{l: l}
}

// TradeCompleted logs the completed trade.
func (n *LogNotifier) TradeCompleted(_ context.Context, plan *domain.TradePlan) error {
	n.l.Info("trade completed",
		zap.String("plan_id", plan.ID),
		zap.String("user_id", plan.UserID),
		zap.String("token", plan.TokenSymbol),
		zap.String("triggered_by", plan.TriggeredBy),
		zap.String("pnl_sol", plan.ProfitLossSOL.String()),
		zap.String("pnl_percent", plan.ProfitLossPercent.String()))
	return nil
}
