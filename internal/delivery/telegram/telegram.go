package telegram

import (
	"context"
	"time"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/service"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

// TelegramBotHandler answers chat commands delivered to the webhook route.
type TelegramBotHandler struct {
	ctx     context.Context
	cfg     *config.Config
	bot     *telebot.Bot
	log     *logger.Logger
	echo    *echo.Echo
	service *service.Service
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	bot *telebot.Bot,
	echo *echo.Echo,
	service *service.Service) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:     ctx,
		cfg:     cfg,
		log:     log,
		bot:     bot,
		echo:    echo,
		service: service,
	}
}

// Start registers the webhook with Telegram. It does nothing without a bot or webhook URL.
func (t *TelegramBotHandler) Start() {
	if t.bot == nil || t.cfg.Telegram.WebhookURL == "" {
		t.log.Info("Telegram webhook is disabled")
		return
	}

	t.log.Info("Setting webhook URL", logger.StringField("webhook_url", t.cfg.Telegram.WebhookURL))
	if err := t.bot.SetWebhook(&telebot.Webhook{
		Endpoint: &telebot.WebhookEndpoint{
			PublicURL: t.cfg.Telegram.WebhookURL,
		},
	}); err != nil {
		t.log.Error("Failed to set telegram webhook", logger.ErrorField(err))
		return
	}

	t.RegisterHandlers()
}

func (t *TelegramBotHandler) Stop() {
	if t.bot == nil || t.cfg.Telegram.WebhookURL == "" {
		return
	}
	t.log.Info("Stopping Telegram bot...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- t.bot.RemoveWebhook()
	}()

	select {
	case err := <-stopDone:
		if err != nil {
			t.log.Warn("Failed to remove telegram webhook", logger.ErrorField(err))
		}
		t.log.Info("Telegram bot stopped successfully")
	case <-ctx.Done():
		t.log.Warn("Timeout while stopping bot, forcing shutdown")
	}
}
