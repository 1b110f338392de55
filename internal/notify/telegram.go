package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pushup-tracker/internal/config"
)

// Notifier announces logged activity to an external channel. Announcements
// are best-effort: failures are logged and never surface to the caller.
type Notifier interface {
	EntryLogged(username string, count, todayTotal int)
}

type noopNotifier struct{}

func (noopNotifier) EntryLogged(string, int, int) {}

// Noop returns a notifier that does nothing.
func Noop() Notifier {
	return noopNotifier{}
}

type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewFromConfig builds a Telegram notifier, or a no-op one when no token or
// chat is configured.
func NewFromConfig(cfg config.TelegramConfig) (Notifier, error) {
	if cfg.Token == "" || cfg.ChatID == 0 {
		return Noop(), nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &telegramNotifier{bot: bot, chatID: cfg.ChatID}, nil
}

func (n *telegramNotifier) EntryLogged(username string, count, todayTotal int) {
	// Sent off the request path so a slow Telegram API cannot delay a log call.
	go func() {
		text := fmt.Sprintf("%s logged %d push-ups (%d today)", username, count, todayTotal)
		if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
			log.Printf("telegram notify: %v", err)
		}
	}()
}
