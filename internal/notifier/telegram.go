package notifier

import (
	"context"
	"net/http"
	"net/url"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"MarketSignal/internal/logger"
)

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot        *tgbot.BotAPI
	ChatID     int64
	MaxRetries int
	Backoff    time.Duration // first retry delay, doubled on every attempt
}

// NewTelegramNotifier creates a notifier with optional proxy support.
// It checks the token against the API before returning.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: 40 * time.Second, Transport: transport}
	return newTelegramNotifier(botToken, tgbot.APIEndpoint, chatID, client)
}

func newTelegramNotifier(botToken, endpoint string, chatID int64, client *http.Client) (*TelegramNotifier, error) {
	bot, err := tgbot.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, errors.Wrap(err, "telegram: connect bot")
	}
	return &TelegramNotifier{
		bot:        bot,
		ChatID:     chatID,
		MaxRetries: 3,
		Backoff:    time.Second,
	}, nil
}

// Send delivers text to the configured chat, retrying on failure.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.SendWithRetry(ctx, text, t.MaxRetries)
}

func (t *TelegramNotifier) send(text string) error {
	if _, err := t.bot.Send(tgbot.NewMessage(t.ChatID, text)); err != nil {
		return errors.Wrap(err, "telegram: send message")
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	backoff := t.Backoff
	for i := 0; i <= maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := t.send(text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		logger.Warn("Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return errors.Wrapf(lastErr, "all %d attempts exhausted", maxRetries+1)
}
