package notificator

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
)

// TelegramNotificator posts messages to a single configured chat.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot
	chatID string
}

func NewTelegramNotificator(ctx context.Context, logger *logger.Logger, token, chatID string) (*TelegramNotificator, error) {
	provider := &TelegramNotificator{
		logger: logger,
		chatID: chatID,
	}
	opts := []bot.Option{
		bot.WithDefaultHandler(provider.handler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %s", err)
	}
	go b.Start(ctx)
	provider.bot = b

	return provider, nil
}

func (t *TelegramNotificator) Name() string { return "telegram" }

func (t *TelegramNotificator) Send(_ *models.Notification, message string) error {
	if t.chatID == "" {
		return nil
	}
	return t.sendTo(t.chatID, message)
}

func (t *TelegramNotificator) sendTo(chatID, message string) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   message,
	}
	if _, err := t.bot.SendMessage(context.Background(), params); err != nil {
		return fmt.Errorf("failed to send telegram message: %s", err)
	}
	return nil
}

// handler answers /start with the chat id to put into TELEGRAM_CHAT_ID.
func (t *TelegramNotificator) handler(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	t.logger.Debug("Telegram update", "username", update.Message.From.Username, "text", update.Message.Text)
	if update.Message.Text != "/start" {
		return
	}
	chatID := fmt.Sprint(update.Message.Chat.ID)
	if err := t.sendTo(chatID, "Trade alerts are delivered to one chat. Set TELEGRAM_CHAT_ID="+chatID+" to receive them here."); err != nil {
		t.logger.Error("Failed to answer /start", "error", err)
	}
}
