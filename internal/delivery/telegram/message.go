package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/service"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

const (
	maxListedStrategies = 10
	maxListedEvents     = 5
)

const (
	commonErrorInternal   = "❌ Something went wrong on our side. Please try again later."
	unknownCommandMessage = "I don't recognize that. Use /help to see the available commands."
	helpMessage           = `👋 <b>StrategyEvolve</b>

/strategies [base|optimized|hybrid] - list stored strategies
/optimize &lt;strategy_id&gt; [selector] - run a quantitative sweep
/history [strategy_id] - latest evolution events
/scheduler [run] - scheduler status, or run it now
/help - show this message`
)

func FormatStrategyList(strategies []dto.Strategy, limit int) string {
	if len(strategies) == 0 {
		return "No strategies found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>%d strategies</b>\n\n", len(strategies)))
	for i, s := range strategies {
		if i == limit {
			sb.WriteString(fmt.Sprintf("<i>... and %d more</i>\n", len(strategies)-limit))
			break
		}
		p := s.Parameters
		sb.WriteString(fmt.Sprintf("• <b>%s</b> (%s)\n  <code>%s</code>\n  MA %d/%d, RSI %.1f, size %.1f%%",
			utils.EscapeHTML(s.Name), s.Kind, s.ID, p.MAShort, p.MALong, p.RSIThreshold, p.PositionSize*100))
		if s.Metrics != nil {
			sb.WriteString(fmt.Sprintf(", Sharpe %.2f", s.Metrics.SharpeRatio))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func FormatOptimizeResult(result *dto.OptimizeResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧬 Evaluated %d variants", result.Evaluated))
	if result.Failed > 0 {
		sb.WriteString(fmt.Sprintf(" (%d failed)", result.Failed))
	}
	sb.WriteString("\n\n")

	s := result.Strategy
	p := s.Parameters
	sb.WriteString(fmt.Sprintf("Best: <b>%s</b>\n<code>%s</code>\n", utils.EscapeHTML(s.Name), s.ID))
	sb.WriteString(fmt.Sprintf("MA %d/%d, RSI %.1f, size %.1f%%\n", p.MAShort, p.MALong, p.RSIThreshold, p.PositionSize*100))
	sb.WriteString(fmt.Sprintf("Δ Sharpe %+.2f | Δ Return %s\n",
		result.Event.Improvement.SharpeDelta, utils.FormatPercentage(result.Event.Improvement.ReturnDelta)))
	return sb.String()
}

func FormatHistory(events []dto.EvolutionEvent) string {
	if len(events) == 0 {
		return "No evolution events yet."
	}

	var sb strings.Builder
	sb.WriteString("🕑 <b>Evolution history</b>\n\n")
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("• %s %s → <code>%s</code>\n  Δ Sharpe %+.2f | Δ Return %s\n",
			utils.PrettyDate(e.CreatedAt), e.Kind, e.NewStrategyID,
			e.Improvement.SharpeDelta, utils.FormatPercentage(e.Improvement.ReturnDelta)))
	}
	return sb.String()
}

func FormatSchedulerStatus(enabled bool, spec string, next time.Time) string {
	status := "disabled"
	if enabled {
		status = "enabled"
	}
	return fmt.Sprintf("⏰ Scheduler <b>%s</b>\nSpec <code>%s</code>\nNext run %s\n\nSend /scheduler run to start it now.",
		status, utils.EscapeHTML(spec), utils.PrettyDate(next))
}

// FormatError keeps user-facing failures short; internal errors are never echoed.
func FormatError(err error) string {
	var (
		validationErr *dto.ValidationError
		noViableErr   *evolution.NoViableStrategyError
	)
	switch {
	case errors.As(err, &noViableErr):
		return "⚠️ No variant could be backtested on the selected data."
	case errors.As(err, &validationErr):
		return "⚠️ " + utils.EscapeHTML(validationErr.Error())
	case errors.Is(err, service.ErrStrategyNotFound):
		return "⚠️ Strategy not found."
	default:
		return commonErrorInternal
	}
}
