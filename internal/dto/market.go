package dto

import "time"

// PriceBar is one trading day of OHLCV data.
type PriceBar struct {
	Date   time.Time `json:"date" validate:"required"`
	Open   float64   `json:"open" validate:"gt=0"`
	High   float64   `json:"high" validate:"gt=0"`
	Low    float64   `json:"low" validate:"gt=0"`
	Close  float64   `json:"close" validate:"gt=0"`
	Volume float64   `json:"volume" validate:"gte=0"`
}

type TradeKind string

const (
	TradeKindEntry TradeKind = "ENTRY"
	TradeKindExit  TradeKind = "EXIT"
)

// TradeEvent is one simulated fill inside a backtest.
type TradeEvent struct {
	Kind     TradeKind `json:"kind"`
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
	Quantity float64   `json:"quantity"`
}

type GetMarketDataParam struct {
	Ticker string `json:"ticker"`
	Days   int    `json:"days"`
}

// AlphaVantageDailyResponse is the TIME_SERIES_DAILY payload.
type AlphaVantageDailyResponse struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	TimeSeries   map[string]AlphaVantageDaily `json:"Time Series (Daily)"`
}

type AlphaVantageDaily struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
