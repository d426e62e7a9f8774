package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/flashdeck/internal/platform/logger"
	"github.com/example/flashdeck/pkg/models"
)

// ErrNoChat is returned for users without a linked Telegram chat
var ErrNoChat = errors.New("user has no telegram chat")

// sender is the part of *tgbotapi.BotAPI the notifier needs
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers review reminders as Telegram messages
type Telegram struct {
	api sender
	log *logger.Logger
}

// NewTelegram authenticates against the Bot API with token
func NewTelegram(token string, log *logger.Logger) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Info("telegram notifier authorized", "bot", api.Self.UserName)
	return newTelegram(api, log), nil
}

func newTelegram(api sender, log *logger.Logger) *Telegram {
	return &Telegram{api: api, log: log.With("notifier", "telegram")}
}

// SendReminders tells the user how many cards are waiting for review
func (t *Telegram) SendReminders(ctx context.Context, user models.User, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.TelegramChatID == nil {
		return fmt.Errorf("user %d: %w", user.ID, ErrNoChat)
	}

	msg := tgbotapi.NewMessage(*user.TelegramChatID, ReminderText(count))
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("failed to send reminder", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to send reminder to user %d: %w", user.ID, err)
	}
	t.log.Info("reminder sent", "user_id", user.ID, "cards", count)
	return nil
}

// ReminderText is the message body for count due cards
func ReminderText(count int) string {
	noun := "cards"
	if count == 1 {
		noun = "card"
	}
	return fmt.Sprintf("You have %d %s due for review. Open your decks to keep your streak going!", count, noun)
}

// Log only writes reminders to the log; used when no bot token is configured
type Log struct {
	log *logger.Logger
}

func NewLog(log *logger.Logger) *Log {
	return &Log{log: log.With("notifier", "log")}
}

func (l *Log) SendReminders(_ context.Context, user models.User, count int) error {
	l.log.Info("reminder", "user_id", user.ID, "username", user.Username, "cards", count)
	return nil
}
