package notifier

import (
	"context"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"MarketSignal/internal/logger"
)

// CommandHandler answers a bot command such as /signal. An empty reply sends nothing.
type CommandHandler func(ctx context.Context, command, args string) string

// StartPolling long-polls for commands from the configured chat and replies
// with the handler's answer. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Telegram polling stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			msg := upd.Message
			if msg == nil || msg.Chat == nil || msg.Chat.ID != t.ChatID || !msg.IsCommand() {
				continue
			}
			logger.Info("Telegram command /%s", msg.Command())
			reply := handler(ctx, msg.Command(), msg.CommandArguments())
			if reply == "" {
				continue
			}
			if err := t.SendWithRetry(ctx, reply, t.MaxRetries); err != nil {
				logger.Error("reply to /%s: %v", msg.Command(), err)
			}
		}
	}
}
