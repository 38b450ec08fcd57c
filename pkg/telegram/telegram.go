package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Sender is the part of telebot.Bot the notifier uses.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Notifier pushes evolution results and log alerts to a single chat.
type Notifier interface {
	SendAlert(ctx context.Context, message string) error
	NotifyEvolution(ctx context.Context, event dto.EvolutionEvent, strategy dto.Strategy) error
}

type telegramNotifier struct {
	log     *logger.Logger
	sender  Sender
	chat    *telebot.Chat
	limiter *rate.Limiter
}

// NewNotifier returns a no-op notifier when no bot token or chat is configured.
func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger) (Notifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return noopNotifier{}, nil
	}
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.BotToken,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return NewNotifierWithSender(bot, cfg.ChatID, cfg.MaxGlobalRequestPerSecond, log), nil
}

func NewNotifierWithSender(sender Sender, chatID int64, perSecond int, log *logger.Logger) Notifier {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &telegramNotifier{
		log:     log,
		sender:  sender,
		chat:    &telebot.Chat{ID: chatID},
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

func (t *telegramNotifier) SendAlert(ctx context.Context, message string) error {
	return t.send(ctx, message)
}

func (t *telegramNotifier) NotifyEvolution(ctx context.Context, event dto.EvolutionEvent, strategy dto.Strategy) error {
	return t.send(ctx, FormatEvolutionMessage(event, strategy))
}

func (t *telegramNotifier) send(ctx context.Context, message string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := t.sender.Send(t.chat, message, telebot.ModeHTML, telebot.NoPreview); err != nil {
		// plain Warn: an alert about a failed alert would loop
		t.log.Warn("Failed to send telegram message",
			logger.ErrorField(err),
			logger.StringField("chat_id", strconv.FormatInt(t.chat.ID, 10)),
		)
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) SendAlert(context.Context, string) error { return nil }

func (noopNotifier) NotifyEvolution(context.Context, dto.EvolutionEvent, dto.Strategy) error {
	return nil
}
