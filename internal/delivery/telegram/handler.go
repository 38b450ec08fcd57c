package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

const commandTimeout = 5 * time.Minute

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(t.ctx, commandTimeout)
		defer cancel()

		return handler(ctx, c)
	}
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.echo.POST("/api/v1/telegram/webhook", func(c echo.Context) error {
		var update telebot.Update
		if err := c.Bind(&update); err != nil {
			t.log.ErrorContext(t.ctx, "Cannot bind JSON", logger.ErrorField(err))
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
		t.bot.ProcessUpdate(update)
		return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "ok", nil))
	})

	t.bot.Handle("/start", t.WithContext(t.handleStart))
	t.bot.Handle("/help", t.WithContext(t.handleStart))
	t.bot.Handle("/strategies", t.WithContext(t.handleStrategies))
	t.bot.Handle("/optimize", t.WithContext(t.handleOptimize))
	t.bot.Handle("/history", t.WithContext(t.handleHistory))
	t.bot.Handle("/scheduler", t.WithContext(t.handleScheduler))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleText))
}

func (t *TelegramBotHandler) reply(c telebot.Context, message string) error {
	return c.Send(message, telebot.ModeHTML, telebot.NoPreview)
}

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	return t.reply(c, helpMessage)
}

func (t *TelegramBotHandler) handleText(ctx context.Context, c telebot.Context) error {
	if strings.HasPrefix(c.Text(), "/") {
		return nil
	}
	return t.reply(c, unknownCommandMessage)
}

func (t *TelegramBotHandler) handleStrategies(ctx context.Context, c telebot.Context) error {
	kind := dto.StrategyKind(strings.ToLower(c.Message().Payload))
	strategies, err := t.service.StrategyService.List(ctx, kind)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to list strategies", logger.ErrorField(err))
		return t.reply(c, commonErrorInternal)
	}
	return t.reply(c, FormatStrategyList(strategies, maxListedStrategies))
}

func (t *TelegramBotHandler) handleOptimize(ctx context.Context, c telebot.Context) error {
	args := c.Args()
	if len(args) == 0 {
		return t.reply(c, "Usage: /optimize &lt;strategy_id&gt; [sharpe|return_weighted]")
	}
	req := dto.OptimizeRequest{StrategyID: args[0]}
	if len(args) > 1 {
		req.Selector = args[1]
	}

	if err := t.reply(c, "⏳ Optimizing, this can take a moment..."); err != nil {
		return err
	}
	result, err := t.service.EvolutionService.Optimize(ctx, req)
	if err != nil {
		t.log.WarnContext(ctx, "telegram optimize failed", logger.StringField("strategy_id", req.StrategyID), logger.ErrorField(err))
		return t.reply(c, FormatError(err))
	}
	return t.reply(c, FormatOptimizeResult(result))
}

func (t *TelegramBotHandler) handleHistory(ctx context.Context, c telebot.Context) error {
	query := dto.HistoryQuery{Limit: maxListedEvents}
	if args := c.Args(); len(args) > 0 {
		query.StrategyID = args[0]
	}
	events, err := t.service.EvolutionService.History(ctx, query)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to load evolution history", logger.ErrorField(err))
		return t.reply(c, commonErrorInternal)
	}
	return t.reply(c, FormatHistory(events))
}

func (t *TelegramBotHandler) handleScheduler(ctx context.Context, c telebot.Context) error {
	if args := c.Args(); len(args) > 0 && args[0] == "run" {
		if err := t.service.SchedulerService.Execute(ctx); err != nil {
			t.log.ErrorContext(ctx, "manual scheduler run failed", logger.ErrorField(err))
			return t.reply(c, commonErrorInternal)
		}
		return t.reply(c, "✅ Base strategies re-optimized.")
	}

	next, err := t.service.SchedulerService.NextRun(time.Now())
	if err != nil {
		return t.reply(c, FormatError(err))
	}
	return t.reply(c, FormatSchedulerStatus(t.cfg.Scheduler.Enabled, t.cfg.Scheduler.EvolveSpec, next))
}
