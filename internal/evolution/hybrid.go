package evolution

import (
	"context"
	"fmt"
	"math"

	"github.com/ekant1999/StrategyEvolve/internal/backtest"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/google/uuid"
)

const HybridStrategyName = "Hybrid Strategy (Evolved)"

// Safe ranges for hybrid parameters.
const (
	HybridRSIMin      = 10.0
	HybridRSIMax      = 50.0
	HybridMAShortMin  = 5
	HybridMAShortMax  = 50
	HybridMALongMin   = 20
	HybridMALongMax   = 200
	HybridPositionMin = 0.05
	HybridPositionMax = 1.0
)

// ApplyAdjustments folds both adjustment signals into params and clamps the result.
// Position size modifiers multiply; threshold and MA offsets add.
func ApplyAdjustments(params dto.StrategyParameters, behavioral dto.BehavioralAdjustment, sentiment dto.SentimentAdjustment) dto.StrategyParameters {
	maOffset := int(math.Round(behavioral.MASensitivityAdjustment))

	out := params
	out.PositionSize = clampFloat(params.PositionSize*behavioral.PositionSizingModifier*sentiment.PositionSizeModifier, HybridPositionMin, HybridPositionMax)
	out.RSIThreshold = clampFloat(params.RSIThreshold+behavioral.RSIThresholdAdjustment+sentiment.RSIThresholdAdjustment, HybridRSIMin, HybridRSIMax)
	out.MAShort = clampInt(params.MAShort+maOffset, HybridMAShortMin, HybridMAShortMax)
	out.MALong = clampInt(params.MALong+maOffset, HybridMALongMin, HybridMALongMax)
	return out
}

// SynthesizeHybrid applies external adjustments to the optimized strategy and
// re-runs the backtest. The event is measured against base.
func (o *Optimizer) SynthesizeHybrid(
	ctx context.Context,
	base dto.Strategy,
	optimized dto.Strategy,
	behavioral dto.BehavioralAdjustment,
	sentiment dto.SentimentAdjustment,
	bars []dto.PriceBar,
) (*Outcome, error) {
	params := ApplyAdjustments(optimized.Parameters, behavioral, sentiment)
	metrics, err := backtest.Backtest(params, bars)
	if err != nil {
		return nil, fmt.Errorf("backtest hybrid of %s: %w", optimized.ID, err)
	}

	parentID := optimized.ID
	hybrid := dto.Strategy{
		ID:         uuid.NewString(),
		UserID:     optimized.UserID,
		Name:       HybridStrategyName,
		Kind:       dto.StrategyKindHybrid,
		Parameters: params,
		ParentID:   &parentID,
		CreatedAt:  o.now(),
	}.WithMetrics(metrics)

	optimizedMetrics := optimized.MetricsOrZero()
	insights := fmt.Sprintf(
		"Hybrid strategy evolved from quantitative optimization (Sharpe %.2f) with position size x%.2f, RSI threshold %+.1f and MA offset %+d. Result: Sharpe %.2f, Return %.2f%%.",
		optimizedMetrics.SharpeRatio,
		behavioral.PositionSizingModifier*sentiment.PositionSizeModifier,
		behavioral.RSIThresholdAdjustment+sentiment.RSIThresholdAdjustment,
		int(math.Round(behavioral.MASensitivityAdjustment)),
		metrics.SharpeRatio,
		metrics.TotalReturn,
	)

	o.log.InfoContext(ctx, "Hybrid strategy synthesized",
		logger.StringField("optimized_id", optimized.ID),
		logger.StringField("hybrid_id", hybrid.ID),
		logger.FloatField("sharpe_ratio", metrics.SharpeRatio),
	)

	return &Outcome{
		Strategy:  hybrid,
		Event:     o.newEvent(dto.EvolutionKindHybrid, base.ID, hybrid, base.MetricsOrZero(), insights),
		Variants:  []dto.Strategy{hybrid},
		Evaluated: 1,
	}, nil
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
