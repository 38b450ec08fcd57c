package dto

import "time"

type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// UserTrade is a real trade logged by a user. It feeds the behavioral profile.
type UserTrade struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	StrategyID *string     `json:"strategy_id,omitempty"`
	Ticker     string      `json:"ticker"`
	Action     TradeAction `json:"action"`
	Quantity   float64     `json:"quantity"`
	Price      float64     `json:"price"`
	Timestamp  time.Time   `json:"timestamp"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
