package model

import (
	"testing"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyMapping(t *testing.T) {
	parent := "p-1"
	sl := 0.05
	in := dto.Strategy{
		ID:         "s-1",
		Name:       "Variant",
		Kind:       dto.StrategyKindOptimized,
		Parameters: dto.StrategyParameters{MAShort: 18, MALong: 44, RSIThreshold: 31.5, PositionSize: 0.12, StopLoss: &sl},
		ParentID:   &parent,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	row, err := StrategyFromDTO(in)
	require.NoError(t, err)
	assert.Equal(t, "optimized", row.Type)
	assert.Nil(t, row.Metrics)
	assert.JSONEq(t, `{"ma_short":18,"ma_long":44,"rsi_threshold":31.5,"position_size":0.12,"stop_loss":0.05}`, string(row.Parameters))

	out, err := row.ToDTO()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	withMetrics := in.WithMetrics(dto.StrategyMetrics{SharpeRatio: 1.1, NumTrades: 4})
	row, err = StrategyFromDTO(withMetrics)
	require.NoError(t, err)
	out, err = row.ToDTO()
	require.NoError(t, err)
	require.NotNil(t, out.Metrics)
	assert.Equal(t, 4, out.Metrics.NumTrades)
}

func TestStrategyMapping_BadJSON(t *testing.T) {
	row := &Strategy{ID: "s-1", Parameters: []byte("{")}
	_, err := row.ToDTO()
	assert.Error(t, err)
}

func TestEvolutionEventMapping(t *testing.T) {
	in := dto.EvolutionEvent{
		ID:            "e-1",
		Kind:          dto.EvolutionKindHybrid,
		OldStrategyID: "a",
		NewStrategyID: "b",
		Improvement:   dto.Improvement{SharpeDelta: 0.3, ReturnDelta: -1.5},
		Insights:      "text",
		CreatedAt:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	row, err := EvolutionEventFromDTO(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sharpe_delta":0.3,"return_delta":-1.5}`, string(row.Improvement))

	out, err := row.ToDTO()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
