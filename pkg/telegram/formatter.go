package telegram

import (
	"fmt"
	"strings"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

// FormatEvolutionMessage renders an evolution event as Telegram HTML.
func FormatEvolutionMessage(event dto.EvolutionEvent, strategy dto.Strategy) string {
	var sb strings.Builder

	emoji := "📈"
	if event.Improvement.SharpeDelta < 0 {
		emoji = "📉"
	}

	sb.WriteString(fmt.Sprintf("%s <b>%s evolution</b>\n", emoji, strings.ToUpper(string(event.Kind))))
	sb.WriteString(fmt.Sprintf("<b>%s</b> (%s)\n\n", utils.EscapeHTML(strategy.Name), strategy.Kind))

	p := strategy.Parameters
	sb.WriteString(fmt.Sprintf("MA %d / %d, RSI %.1f, size %.1f%%\n", p.MAShort, p.MALong, p.RSIThreshold, p.PositionSize*100))

	if strategy.Metrics != nil {
		m := strategy.Metrics
		sb.WriteString(fmt.Sprintf("Sharpe <b>%.2f</b> | Return <b>%.2f%%</b> | Max DD %.2f%%\n", m.SharpeRatio, m.TotalReturn, m.MaxDrawdown))
		sb.WriteString(fmt.Sprintf("Trades %d | Win rate %.1f%%\n", m.NumTrades, m.WinRate))
	}

	sb.WriteString(fmt.Sprintf("\nΔ Sharpe %+.2f | Δ Return %s\n", event.Improvement.SharpeDelta, utils.FormatPercentage(event.Improvement.ReturnDelta)))
	if event.Insights != "" {
		sb.WriteString(fmt.Sprintf("\n<i>%s</i>\n", utils.EscapeHTML(utils.Truncate(event.Insights, 600))))
	}
	sb.WriteString(utils.PrettyDate(event.CreatedAt))
	return sb.String()
}
