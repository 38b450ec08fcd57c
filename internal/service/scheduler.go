package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"github.com/robfig/cron/v3"
)

// SchedulerService periodically re-optimizes the stored base strategies.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	Execute(ctx context.Context) error
	NextRun(from time.Time) (time.Time, error)
}

type schedulerService struct {
	cfg        *config.Config
	log        *logger.Logger
	cronParser cron.Parser
	cron       *cron.Cron
	evolution  EvolutionService
	running    sync.Mutex
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, evolutionService EvolutionService) SchedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:        cfg,
		log:        log,
		cronParser: parser,
		cron:       cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
		evolution:  evolutionService,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.InfoContext(ctx, "Scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.EvolveSpec, func() {
		runCtx, cancel := context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
		defer cancel()
		if err := s.Execute(runCtx); err != nil {
			s.log.ErrorContextWithAlert(runCtx, "Scheduled evolution failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to parse cron expression %q: %w", s.cfg.Scheduler.EvolveSpec, err)
	}

	s.cron.Start()
	next, _ := s.NextRun(utils.TimeNow())
	s.log.InfoContext(ctx, "Scheduler started",
		logger.StringField("spec", s.cfg.Scheduler.EvolveSpec),
		logger.StringField("next_run", utils.PrettyDate(next)),
	)
	return nil
}

func (s *schedulerService) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.log.Info("Scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Timeout while stopping scheduler")
	}
}

// Execute runs one optimization pass. Overlapping runs are skipped rather than queued.
func (s *schedulerService) Execute(ctx context.Context) error {
	if !s.running.TryLock() {
		s.log.WarnContext(ctx, "Previous evolution run still in progress, skipping")
		return nil
	}
	defer s.running.Unlock()

	start := time.Now()
	s.log.InfoContext(ctx, "Start scheduled evolution")
	if err := s.evolution.OptimizeBaseStrategies(ctx); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Scheduled evolution completed", logger.StringField("duration", time.Since(start).String()))
	return nil
}

func (s *schedulerService) NextRun(from time.Time) (time.Time, error) {
	schedule, err := s.cronParser.Parse(s.cfg.Scheduler.EvolveSpec)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse cron expression: %w", err)
	}
	return schedule.Next(from), nil
}
