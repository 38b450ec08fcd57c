package dto

import "time"

type GenerateVariantsRequest struct {
	StrategyID string `json:"strategy_id" validate:"required"`
	Count      int    `json:"count" validate:"omitempty,gte=1,lte=200"`
}

// MarketWindow selects which bars a stored strategy is evaluated on.
// Zero values fall back to the configured ticker and history length.
type MarketWindow struct {
	Ticker string `json:"ticker" query:"ticker" validate:"omitempty,max=12"`
	Days   int    `json:"days" query:"days" validate:"omitempty,gte=1,lte=5000"`
}

// BacktestRequest runs a stateless backtest. When Bars is empty the bars for
// MarketWindow are fetched instead.
type BacktestRequest struct {
	Parameters StrategyParameters `json:"parameters" validate:"required"`
	Bars       []PriceBar         `json:"bars" validate:"omitempty,dive"`
	MarketWindow
}

type OptimizeRequest struct {
	StrategyID string `json:"strategy_id" validate:"required"`
	Selector   string `json:"selector" validate:"omitempty,oneof=sharpe return_weighted"`
	MarketWindow
}

type EvolveRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	StrategyID string `json:"strategy_id" validate:"required"`
	Selector   string `json:"selector" validate:"omitempty,oneof=sharpe return_weighted"`
	MarketWindow
}

type HistoryQuery struct {
	StrategyID string `query:"strategy_id"`
	Limit      int    `query:"limit" validate:"omitempty,gte=1,lte=500"`
}

type CreateTradeRequest struct {
	UserID     string      `json:"user_id" validate:"required"`
	StrategyID *string     `json:"strategy_id"`
	Ticker     string      `json:"ticker" validate:"required,max=12"`
	Action     TradeAction `json:"action" validate:"required,oneof=BUY SELL"`
	Quantity   float64     `json:"quantity" validate:"gt=0"`
	Price      float64     `json:"price" validate:"gt=0"`
	Timestamp  *time.Time  `json:"timestamp"`
}

type ListTradesQuery struct {
	UserID string `query:"user_id" validate:"required"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=500"`
}

type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=100"`
}

type OptimizeResult struct {
	Base      Strategy       `json:"base_strategy"`
	Strategy  Strategy       `json:"strategy"`
	Event     EvolutionEvent `json:"event"`
	Evaluated int            `json:"evaluated"`
	Failed    int            `json:"failed"`
}

// EvolveResult is one full cycle: quantitative optimization, then the hybrid built on top of it.
type EvolveResult struct {
	Base       Strategy             `json:"base_strategy"`
	Optimized  Strategy             `json:"optimized_strategy"`
	Final      Strategy             `json:"final_strategy"`
	Events     []EvolutionEvent     `json:"events"`
	Behavioral BehavioralAdjustment `json:"behavioral_adjustment"`
	Sentiment  SentimentAdjustment  `json:"sentiment_adjustment"`
	Narrative  string               `json:"narrative,omitempty"`
}
