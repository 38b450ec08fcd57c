package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/ekant1999/StrategyEvolve/internal/backtest"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"github.com/spf13/cobra"
)

type backtestFlags struct {
	days         int
	seed         int64
	maShort      int
	maLong       int
	rsiThreshold float64
	positionSize float64
	optimize     bool
	selector     string
	variants     int
	logLevel     string
}

var btFlags backtestFlags

// backtestCmd runs offline on synthetic bars; no database or API key is needed.
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest a parameter set on synthetic bars, optionally optimizing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := runOfflineBacktest(cmd.Context(), btFlags)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

type offlineReport struct {
	Bars      int                 `json:"bars"`
	Seed      int64               `json:"seed"`
	Base      dto.Strategy        `json:"base_strategy"`
	Optimized *dto.Strategy       `json:"optimized_strategy,omitempty"`
	Event     *dto.EvolutionEvent `json:"event,omitempty"`
	Trades    []dto.TradeEvent    `json:"trades"`
	Final     float64             `json:"final_capital"`
	Metrics   dto.StrategyMetrics `json:"metrics"`
}

func runOfflineBacktest(ctx context.Context, f backtestFlags) (*offlineReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	seed := f.seed
	if seed == 0 {
		seed = utils.TimeNow().UnixNano()
	}
	bars := repository.SyntheticBars(rand.New(rand.NewSource(seed)), f.days, utils.TimeNow())

	base := dto.Strategy{
		ID:   "cli-base",
		Name: "MA Crossover + RSI",
		Kind: dto.StrategyKindBase,
		Parameters: dto.StrategyParameters{
			MAShort:      f.maShort,
			MALong:       f.maLong,
			RSIThreshold: f.rsiThreshold,
			PositionSize: f.positionSize,
		},
		CreatedAt: utils.TimeNow(),
	}

	result, err := backtest.Run(base.Parameters, bars)
	if err != nil {
		return nil, err
	}
	metrics := result.Metrics
	base.Metrics = &metrics

	report := &offlineReport{
		Bars:    len(bars),
		Seed:    seed,
		Base:    base,
		Trades:  result.Trades,
		Final:   result.FinalCapital,
		Metrics: result.Metrics,
	}
	if !f.optimize {
		return report, nil
	}

	selector, err := evolution.SelectorByName(f.selector)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(f.logLevel, "console")
	if err != nil {
		return nil, err
	}
	optimizer := evolution.NewOptimizer(log, evolution.NewSeededVariantGenerator(seed), selector, f.variants, 0)
	outcome, err := optimizer.OptimizeQuantitative(ctx, base, bars)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	report.Optimized = &outcome.Strategy
	report.Event = &outcome.Event
	return report, nil
}

func init() {
	flags := backtestCmd.Flags()
	flags.IntVar(&btFlags.days, "days", 252, "number of synthetic trading days")
	flags.Int64Var(&btFlags.seed, "seed", 0, "random seed for bars and variants, 0 uses the clock")
	flags.IntVar(&btFlags.maShort, "ma-short", 20, "short moving average window")
	flags.IntVar(&btFlags.maLong, "ma-long", 50, "long moving average window")
	flags.Float64Var(&btFlags.rsiThreshold, "rsi", 30, "RSI threshold")
	flags.Float64Var(&btFlags.positionSize, "position-size", 0.1, "fraction of capital per entry")
	flags.BoolVar(&btFlags.optimize, "optimize", false, "run a quantitative optimization sweep")
	flags.StringVar(&btFlags.selector, "selector", evolution.SelectorSharpe, "ranking used by --optimize: sharpe or return_weighted")
	flags.IntVar(&btFlags.variants, "variants", evolution.DefaultVariantCount, "variants per sweep")
	flags.StringVar(&btFlags.logLevel, "log-level", "error", "log level while optimizing")
	backtestCmd.SetErr(os.Stderr)
}
