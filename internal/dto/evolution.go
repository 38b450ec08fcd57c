package dto

import "time"

type EvolutionKind string

const (
	EvolutionKindQuantitative EvolutionKind = "quantitative"
	EvolutionKindBehavioral   EvolutionKind = "behavioral"
	EvolutionKindHybrid       EvolutionKind = "hybrid"
)

type Improvement struct {
	SharpeDelta float64 `json:"sharpe_delta"`
	ReturnDelta float64 `json:"return_delta"`
}

// EvolutionEvent records one optimization step. Events are append only.
type EvolutionEvent struct {
	ID            string        `json:"id"`
	Kind          EvolutionKind `json:"type"`
	OldStrategyID string        `json:"old_strategy_id"`
	NewStrategyID string        `json:"new_strategy_id"`
	Improvement   Improvement   `json:"improvement"`
	Insights      string        `json:"insights"`
	CreatedAt     time.Time     `json:"created_at"`
}

// BehavioralAdjustment is the numeric nudge derived from a user's trading behavior.
type BehavioralAdjustment struct {
	PositionSizingModifier  float64 `json:"position_sizing_modifier"`
	RSIThresholdAdjustment  float64 `json:"rsi_threshold_adjustment"`
	MASensitivityAdjustment float64 `json:"ma_sensitivity_adjustment"`
}

// SentimentAdjustment is the numeric nudge derived from market news and sentiment.
type SentimentAdjustment struct {
	PositionSizeModifier   float64 `json:"position_size_modifier"`
	RSIThresholdAdjustment float64 `json:"rsi_threshold_adjustment"`
}

func NeutralBehavioralAdjustment() BehavioralAdjustment {
	return BehavioralAdjustment{PositionSizingModifier: 1}
}

func NeutralSentimentAdjustment() SentimentAdjustment {
	return SentimentAdjustment{PositionSizeModifier: 1}
}
