package signal

import (
	"testing"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestBullishBearish(t *testing.T) {
	tests := []struct {
		name        string
		maShort     float64
		maLong      float64
		rsi         float64
		threshold   float64
		wantBullish bool
		wantBearish bool
	}{
		{name: "uptrend with room on rsi", maShort: 105, maLong: 100, rsi: 50, threshold: 30, wantBullish: true, wantBearish: true},
		{name: "uptrend with calm rsi", maShort: 105, maLong: 100, rsi: 25, threshold: 30, wantBullish: true, wantBearish: false},
		{name: "uptrend but rsi overbought", maShort: 105, maLong: 100, rsi: 75, threshold: 30, wantBullish: false, wantBearish: true},
		{name: "downtrend", maShort: 95, maLong: 100, rsi: 20, threshold: 30, wantBullish: false, wantBearish: true},
		{name: "equal averages never bullish", maShort: 100, maLong: 100, rsi: 20, threshold: 30, wantBullish: false, wantBearish: false},
		{name: "rsi exactly at entry bound", maShort: 105, maLong: 100, rsi: 70, threshold: 30, wantBullish: false, wantBearish: true},
		{name: "rsi exactly at exit bound", maShort: 105, maLong: 100, rsi: 30, threshold: 30, wantBullish: true, wantBearish: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantBullish, Bullish(tt.maShort, tt.maLong, tt.rsi, tt.threshold))
			assert.Equal(t, tt.wantBearish, Bearish(tt.maShort, tt.maLong, tt.rsi, tt.threshold))
		})
	}
}

// A bar can be both bullish and bearish; the position state decides which wins.
func TestSeries_Classify(t *testing.T) {
	s := Series{
		MAShort:      []float64{105, 105, 95},
		MALong:       []float64{100, 100, 100},
		RSI:          []float64{50, 25, 20},
		RSIThreshold: 30,
	}

	assert.Equal(t, Enter, s.Classify(0, false))
	assert.Equal(t, Exit, s.Classify(0, true))
	assert.Equal(t, Hold, s.Classify(1, true))
	assert.Equal(t, Enter, s.Classify(1, false))
	assert.Equal(t, Exit, s.Classify(2, true))
	assert.Equal(t, Hold, s.Classify(2, false))
}

func TestWarmupIndex(t *testing.T) {
	assert.Equal(t, 50, WarmupIndex(dto.StrategyParameters{MAShort: 20, MALong: 50}))
	assert.Equal(t, 14, WarmupIndex(dto.StrategyParameters{MAShort: 5, MALong: 10}))
	assert.Equal(t, 14, WarmupIndex(dto.StrategyParameters{MAShort: 5, MALong: 14}))
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "ENTER", Enter.String())
	assert.Equal(t, "EXIT", Exit.String())
	assert.Equal(t, "HOLD", Hold.String())
}
