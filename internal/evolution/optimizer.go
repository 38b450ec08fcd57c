package evolution

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/backtest"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultVariantCount = 20
	MinVariantCount     = 15
)

// Outcome is the product of one optimization step.
type Outcome struct {
	Strategy dto.Strategy
	Event    dto.EvolutionEvent
	// Variants holds every variant that backtested successfully, in generation order.
	Variants  []dto.Strategy
	Evaluated int
	Failed    int
}

type Optimizer struct {
	log          *logger.Logger
	generator    *VariantGenerator
	selector     Selector
	variantCount int
	maxWorkers   int
	now          func() time.Time
}

func NewOptimizer(log *logger.Logger, generator *VariantGenerator, selector Selector, variantCount, maxWorkers int) *Optimizer {
	if variantCount <= 0 {
		variantCount = DefaultVariantCount
	} else if variantCount < MinVariantCount {
		variantCount = MinVariantCount
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	if selector == nil {
		selector = SharpeSelector{}
	}
	return &Optimizer{
		log:          log,
		generator:    generator,
		selector:     selector,
		variantCount: variantCount,
		maxWorkers:   maxWorkers,
		now:          utils.TimeNow,
	}
}

// WithSelector returns a copy of the optimizer that ranks with s.
func (o *Optimizer) WithSelector(s Selector) *Optimizer {
	cp := *o
	cp.selector = s
	return &cp
}

func (o *Optimizer) Selector() Selector { return o.selector }

func (o *Optimizer) VariantCount() int { return o.variantCount }

type variantResult struct {
	metrics dto.StrategyMetrics
	err     error
}

// OptimizeQuantitative backtests variants of base in parallel and returns the best one.
// A variant that fails is logged and left out; only when all of them fail is an error returned.
func (o *Optimizer) OptimizeQuantitative(ctx context.Context, base dto.Strategy, bars []dto.PriceBar) (*Outcome, error) {
	variants, err := o.generator.Generate(base, o.variantCount)
	if err != nil {
		return nil, err
	}

	results := make([]variantResult, len(variants))
	g := new(errgroup.Group)
	g.SetLimit(o.maxWorkers)
	for i := range variants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			results[i].metrics, results[i].err = backtest.Backtest(variants[i].Parameters, bars)
			return nil
		})
	}
	// failures land in results; the goroutines never return an error
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("optimize %s: %w", base.ID, err)
	}

	out := &Outcome{Variants: make([]dto.Strategy, 0, len(variants))}
	var lastErr error
	for i, r := range results {
		if r.err != nil {
			out.Failed++
			lastErr = r.err
			o.log.WarnContext(ctx, "Variant excluded from selection",
				logger.StringField("variant_id", variants[i].ID),
				logger.StringField("variant_name", variants[i].Name),
				logger.ErrorField(r.err),
			)
			continue
		}
		out.Variants = append(out.Variants, variants[i].WithMetrics(r.metrics))
	}
	out.Evaluated = len(out.Variants)

	best, ok := SelectBest(o.selector, out.Variants)
	if !ok {
		return nil, &NoViableStrategyError{Attempted: len(variants), LastErr: lastErr}
	}

	baseMetrics := base.MetricsOrZero()
	bestMetrics := best.MetricsOrZero()
	out.Strategy = best
	out.Event = o.newEvent(dto.EvolutionKindQuantitative, base.ID, best, baseMetrics,
		fmt.Sprintf("Quantitative optimization improved Sharpe ratio from %.2f to %.2f through parameter tuning.",
			baseMetrics.SharpeRatio, bestMetrics.SharpeRatio))

	o.log.InfoContext(ctx, "Quantitative optimization complete",
		logger.StringField("base_id", base.ID),
		logger.StringField("best_id", best.ID),
		logger.StringField("selector", o.selector.Name()),
		logger.IntField("evaluated", out.Evaluated),
		logger.IntField("failed", out.Failed),
		logger.FloatField("sharpe_ratio", bestMetrics.SharpeRatio),
	)
	return out, nil
}

// SelectBest applies the optimizer's selector to already backtested candidates.
func (o *Optimizer) SelectBest(candidates []dto.Strategy) (dto.Strategy, bool) {
	return SelectBest(o.selector, candidates)
}

func (o *Optimizer) newEvent(kind dto.EvolutionKind, oldID string, next dto.Strategy, baseline dto.StrategyMetrics, insights string) dto.EvolutionEvent {
	m := next.MetricsOrZero()
	return dto.EvolutionEvent{
		ID:            uuid.NewString(),
		Kind:          kind,
		OldStrategyID: oldID,
		NewStrategyID: next.ID,
		Improvement: dto.Improvement{
			SharpeDelta: m.SharpeRatio - baseline.SharpeRatio,
			ReturnDelta: m.TotalReturn - baseline.TotalReturn,
		},
		Insights:  insights,
		CreatedAt: o.now(),
	}
}
