package cmd

import (
	"context"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/pkg/cache"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/postgres"
	"github.com/ekant1999/StrategyEvolve/pkg/telegram"
	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/telebot.v3"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	notifier  telegram.Notifier
	bot       *telebot.Bot
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	notifier, err := telegram.NewNotifier(&cfg.Telegram, log)
	if err != nil {
		log.Error("Failed to create telegram notifier", zap.Error(err))
		return nil, err
	}
	log = log.WithAlertCore(notifier, zapcore.WarnLevel)

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	var bot *telebot.Bot
	if cfg.Telegram.BotToken != "" && cfg.Telegram.WebhookURL != "" {
		bot, err = telebot.NewBot(telebot.Settings{
			Token:       cfg.Telegram.BotToken,
			Synchronous: true,
			OnError: func(err error, c telebot.Context) {
				log.Error("Telegram bot error", zap.Error(err))
			},
		})
		if err != nil {
			log.Error("Failed to create telegram bot", zap.Error(err))
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		notifier:  notifier,
		bot:       bot,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	_ = d.log.Sync()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
