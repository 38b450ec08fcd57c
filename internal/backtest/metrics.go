package backtest

import (
	"math"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
)

const tradingDaysPerYear = 252

// ComputeMetrics reduces an equity curve and a strictly alternating trade log.
// Every undefined ratio resolves to 0.
func ComputeMetrics(equity []float64, trades []dto.TradeEvent) dto.StrategyMetrics {
	var m dto.StrategyMetrics
	if len(equity) > 0 && equity[0] != 0 {
		m.TotalReturn = (equity[len(equity)-1] - equity[0]) / equity[0] * 100
	}
	m.SharpeRatio = sharpeRatio(equity)
	m.MaxDrawdown = maxDrawdown(equity)

	wins := 0
	totalDays := 0.0
	for i := 0; i+1 < len(trades); i += 2 {
		entry, exit := trades[i], trades[i+1]
		if exit.Price > entry.Price {
			wins++
		}
		totalDays += exit.Date.Sub(entry.Date).Hours() / 24
		m.NumTrades++
	}
	if m.NumTrades > 0 {
		m.WinRate = float64(wins) / float64(m.NumTrades) * 100
		m.AvgTradeDuration = totalDays / float64(m.NumTrades)
	}
	return m
}

func sharpeRatio(equity []float64) float64 {
	if len(equity) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (equity[i]-equity[i-1])/equity[i-1])
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(returns)))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown is reported as a non-positive percentage.
func maxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := equity[0]
	worst := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - v) / peak * 100; dd > worst {
			worst = dd
		}
	}
	if worst == 0 {
		return 0
	}
	return -worst
}
