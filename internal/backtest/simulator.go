// Package backtest replays a strategy over daily bars and reduces the run to metrics.
package backtest

import (
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/signal"
)

const InitialCapital = 100000.0

// Result is the full outcome of one simulated run.
type Result struct {
	Metrics      dto.StrategyMetrics `json:"metrics"`
	Trades       []dto.TradeEvent    `json:"trades"`
	EquityCurve  []float64           `json:"equity_curve"`
	FinalCapital float64             `json:"final_capital"`
	OpenUnits    float64             `json:"open_units"`
}

// Backtest runs params over bars and returns only the metrics.
func Backtest(params dto.StrategyParameters, bars []dto.PriceBar) (dto.StrategyMetrics, error) {
	res, err := Run(params, bars)
	if err != nil {
		return dto.StrategyMetrics{}, err
	}
	return res.Metrics, nil
}

// Run simulates a long-only, single-position trader. Histories shorter than the
// indicator warm-up produce a degenerate result with a one-point equity curve.
func Run(params dto.StrategyParameters, bars []dto.PriceBar) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}

	capital := InitialCapital
	units := 0.0
	equity := []float64{capital}
	trades := make([]dto.TradeEvent, 0)

	start := signal.WarmupIndex(params)
	if start < len(bars) {
		series := signal.NewSeries(params, bars)
		equity = make([]float64, 0, len(bars)-start+1)
		equity = append(equity, capital)

		for i := start; i < len(bars); i++ {
			bar := bars[i]
			switch series.Classify(i, units > 0) {
			case signal.Enter:
				units = capital * params.PositionSize / bar.Close
				capital -= units * bar.Close
				trades = append(trades, dto.TradeEvent{Kind: dto.TradeKindEntry, Date: bar.Date, Price: bar.Close, Quantity: units})
			case signal.Exit:
				capital += units * bar.Close
				trades = append(trades, dto.TradeEvent{Kind: dto.TradeKindExit, Date: bar.Date, Price: bar.Close, Quantity: units})
				units = 0
			}
			equity = append(equity, capital+units*bar.Close)
		}
	}

	return &Result{
		Metrics:      ComputeMetrics(equity, trades),
		Trades:       trades,
		EquityCurve:  equity,
		FinalCapital: capital,
		OpenUnits:    units,
	}, nil
}

// ValidateBars checks ascending unique dates and positive prices.
func ValidateBars(bars []dto.PriceBar) error {
	for i, bar := range bars {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return &BarError{Index: i, Reason: "prices must be positive"}
		}
		if i > 0 && !bar.Date.After(bars[i-1].Date) {
			return &BarError{Index: i, Reason: "dates must be strictly ascending"}
		}
	}
	return nil
}
