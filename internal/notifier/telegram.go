package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/solwatch/solwatch/internal/domain"
)

// TelegramNotifier delivers trade completions to a Telegram chat.
// Delivery is best effort: the monitor logs and swallows errors.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "init telegram bot")
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// TradeCompleted sends the completion summary.
func (n *TelegramNotifier) TradeCompleted(_ context.Context, plan *domain.TradePlan) error {
	outcome := "profit"
	if plan.ProfitLossSOL.IsNegative() {
		outcome = "loss"
	}

	text := fmt.Sprintf("Trade completed: %s\nTrigger: %s\nEntry: $%s\nExit: $%s\nResult: %s SOL (%s%%) %s",
		plan.TokenSymbol,
		plan.TriggeredBy,
		plan.EntryPriceUSD.StringFixed(6),
		plan.ExitPriceUSD.StringFixed(6),
		plan.ProfitLossSOL.StringFixed(4),
		plan.ProfitLossPercent.StringFixed(2),
		outcome)

	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text))
	return errors.Wrap(err, "send telegram notification")
}
