package evolution

import (
	"fmt"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
)

const (
	SelectorSharpe         = "sharpe"
	SelectorReturnWeighted = "return_weighted"
)

// Selector scores backtested metrics; the optimizer keeps the strictly highest score.
type Selector interface {
	Name() string
	Score(m dto.StrategyMetrics) float64
}

// SharpeSelector ranks by risk adjusted return.
type SharpeSelector struct{}

func (SharpeSelector) Name() string { return SelectorSharpe }

func (SharpeSelector) Score(m dto.StrategyMetrics) float64 { return m.SharpeRatio }

// ReturnWeightedSelector favors absolute return while still rewarding Sharpe.
type ReturnWeightedSelector struct{}

func (ReturnWeightedSelector) Name() string { return SelectorReturnWeighted }

func (ReturnWeightedSelector) Score(m dto.StrategyMetrics) float64 {
	return 0.7*m.TotalReturn + 15*m.SharpeRatio
}

// SelectorByName resolves a policy name. An empty name means Sharpe.
func SelectorByName(name string) (Selector, error) {
	switch name {
	case "", SelectorSharpe:
		return SharpeSelector{}, nil
	case SelectorReturnWeighted:
		return ReturnWeightedSelector{}, nil
	default:
		return nil, dto.NewValidationError("selector", fmt.Sprintf("unknown selector %q", name))
	}
}

// SelectBest reduces candidates in order with a strict comparison, so the first
// of equally scored candidates wins. Candidates without metrics are skipped.
func SelectBest(selector Selector, candidates []dto.Strategy) (dto.Strategy, bool) {
	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		if c.Metrics == nil {
			continue
		}
		score := selector.Score(*c.Metrics)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return dto.Strategy{}, false
	}
	return candidates[best], true
}
