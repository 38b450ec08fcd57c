package cmd

import (
	"context"
	"testing"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFlags() backtestFlags {
	return backtestFlags{
		days:         120,
		seed:         7,
		maShort:      20,
		maLong:       50,
		rsiThreshold: 30,
		positionSize: 0.1,
		selector:     evolution.SelectorSharpe,
		variants:     20,
		logLevel:     "error",
	}
}

func TestRunOfflineBacktest(t *testing.T) {
	report, err := runOfflineBacktest(context.Background(), defaultFlags())
	require.NoError(t, err)

	assert.Equal(t, 120, report.Bars)
	assert.Equal(t, int64(7), report.Seed)
	require.NotNil(t, report.Base.Metrics)
	assert.Equal(t, report.Metrics, *report.Base.Metrics)
	assert.Nil(t, report.Optimized)

	again, err := runOfflineBacktest(context.Background(), defaultFlags())
	require.NoError(t, err)
	assert.Equal(t, report.Metrics, again.Metrics, "same seed gives the same bars")
}

func TestRunOfflineBacktest_Optimize(t *testing.T) {
	flags := defaultFlags()
	flags.optimize = true

	report, err := runOfflineBacktest(context.Background(), flags)
	require.NoError(t, err)

	require.NotNil(t, report.Optimized)
	require.NotNil(t, report.Event)
	assert.Equal(t, dto.StrategyKindOptimized, report.Optimized.Kind)
	assert.Equal(t, "cli-base", report.Event.OldStrategyID)
}

func TestRunOfflineBacktest_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*backtestFlags)
	}{
		{name: "long window below short", mutate: func(f *backtestFlags) { f.maShort, f.maLong = 50, 20 }},
		{name: "position size above one", mutate: func(f *backtestFlags) { f.positionSize = 2 }},
		{name: "unknown selector", mutate: func(f *backtestFlags) { f.optimize = true; f.selector = "sortino" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := defaultFlags()
			tt.mutate(&flags)
			_, err := runOfflineBacktest(context.Background(), flags)
			assert.Error(t, err)
		})
	}
}
