package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/infra/metrics"
)

var _ adapter.Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier pushes operational messages to a fixed admin chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zerolog.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, log: logger}, nil
}

func (t *TelegramNotifier) Notify(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn().Err(err).Msg("telegram notify failed")
		metrics.IncNotification("telegram", "error")
		return err
	}
	metrics.IncNotification("telegram", "ok")
	return nil
}

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier is used when no Telegram token is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, text string) error { return nil }
