package service

import (
	"context"
	"testing"
	"time"

	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEvolution struct {
	EvolutionService
	runs int
}

func (c *countingEvolution) OptimizeBaseStrategies(context.Context) error {
	c.runs++
	return nil
}

func TestScheduler_NextRun(t *testing.T) {
	s := NewSchedulerService(testConfig(), logger.NewNop(), &countingEvolution{})

	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "weekday before the run",
			from: time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC),
			want: time.Date(2024, 6, 12, 22, 0, 0, 0, time.UTC),
		},
		{
			name: "friday night rolls to monday",
			from: time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC),
			want: time.Date(2024, 6, 17, 22, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.NextRun(tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduler_Execute(t *testing.T) {
	evo := &countingEvolution{}
	s := NewSchedulerService(testConfig(), logger.NewNop(), evo)
	require.NoError(t, s.Execute(context.Background()))
	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, 2, evo.runs)
}

func TestScheduler_StartDisabled(t *testing.T) {
	s := NewSchedulerService(testConfig(), logger.NewNop(), &countingEvolution{})
	require.NoError(t, s.Start(context.Background()))
	s.Stop(context.Background())
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.Enabled = true
	cfg.Scheduler.EvolveSpec = "not a cron"
	s := NewSchedulerService(cfg, logger.NewNop(), &countingEvolution{})
	assert.Error(t, s.Start(context.Background()))
}
