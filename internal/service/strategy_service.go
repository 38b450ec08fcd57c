package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/backtest"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
)

var ErrStrategyNotFound = errors.New("strategy not found")

type StrategyService interface {
	List(ctx context.Context, kind dto.StrategyKind) ([]dto.Strategy, error)
	Get(ctx context.Context, id string) (*dto.Strategy, error)
	GenerateVariants(ctx context.Context, req dto.GenerateVariantsRequest) ([]dto.Strategy, error)
	Backtest(ctx context.Context, id string, window dto.MarketWindow) (*backtest.Result, error)
	BacktestParameters(ctx context.Context, req dto.BacktestRequest) (*backtest.Result, error)
}

type strategyService struct {
	cfg          *config.Config
	log          *logger.Logger
	generator    *evolution.VariantGenerator
	strategyRepo repository.StrategyRepository
	marketRepo   repository.MarketDataRepository
}

func NewStrategyService(
	cfg *config.Config,
	log *logger.Logger,
	generator *evolution.VariantGenerator,
	strategyRepo repository.StrategyRepository,
	marketRepo repository.MarketDataRepository,
) StrategyService {
	return &strategyService{
		cfg:          cfg,
		log:          log,
		generator:    generator,
		strategyRepo: strategyRepo,
		marketRepo:   marketRepo,
	}
}

func (s *strategyService) List(ctx context.Context, kind dto.StrategyKind) ([]dto.Strategy, error) {
	if kind != "" {
		return s.strategyRepo.ListByKind(ctx, kind)
	}
	return s.strategyRepo.List(ctx)
}

func (s *strategyService) Get(ctx context.Context, id string) (*dto.Strategy, error) {
	return getStrategy(ctx, s.strategyRepo, id)
}

// GenerateVariants persists count untested variants of a stored strategy.
func (s *strategyService) GenerateVariants(ctx context.Context, req dto.GenerateVariantsRequest) ([]dto.Strategy, error) {
	base, err := getStrategy(ctx, s.strategyRepo, req.StrategyID)
	if err != nil {
		return nil, err
	}

	count := req.Count
	if count <= 0 {
		count = evolution.DefaultVariantCount
	}
	variants, err := s.generator.Generate(*base, count)
	if err != nil {
		return nil, err
	}
	if err := s.strategyRepo.CreateMany(ctx, variants); err != nil {
		s.log.ErrorContext(ctx, "Failed to save variants", logger.ErrorField(err), logger.StringField("strategy_id", base.ID))
		return nil, fmt.Errorf("failed to save variants: %w", err)
	}

	s.log.InfoContext(ctx, "Generated strategy variants",
		logger.StringField("strategy_id", base.ID),
		logger.IntField("count", len(variants)),
	)
	return variants, nil
}

// Backtest re-runs a stored strategy on fresh bars and stores the new metrics.
func (s *strategyService) Backtest(ctx context.Context, id string, window dto.MarketWindow) (*backtest.Result, error) {
	strategy, err := getStrategy(ctx, s.strategyRepo, id)
	if err != nil {
		return nil, err
	}

	bars, err := fetchBars(ctx, s.cfg, s.marketRepo, window)
	if err != nil {
		return nil, err
	}

	result, err := backtest.Run(strategy.Parameters, bars)
	if err != nil {
		return nil, err
	}
	if err := s.strategyRepo.UpdateMetrics(ctx, strategy.ID, result.Metrics); err != nil {
		s.log.ErrorContext(ctx, "Failed to update strategy metrics", logger.ErrorField(err), logger.StringField("strategy_id", id))
		return nil, fmt.Errorf("failed to update strategy metrics: %w", err)
	}
	return result, nil
}

func (s *strategyService) BacktestParameters(ctx context.Context, req dto.BacktestRequest) (*backtest.Result, error) {
	bars := req.Bars
	if len(bars) == 0 {
		var err error
		bars, err = fetchBars(ctx, s.cfg, s.marketRepo, req.MarketWindow)
		if err != nil {
			return nil, err
		}
	}
	return backtest.Run(req.Parameters, bars)
}

func getStrategy(ctx context.Context, repo repository.StrategyRepository, id string) (*dto.Strategy, error) {
	strategy, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStrategyNotFound, id)
		}
		return nil, fmt.Errorf("failed to get strategy %s: %w", id, err)
	}
	return strategy, nil
}

func fetchBars(ctx context.Context, cfg *config.Config, repo repository.MarketDataRepository, window dto.MarketWindow) ([]dto.PriceBar, error) {
	ticker, days := resolveWindow(cfg, window)
	bars, err := repo.GetHistorical(ctx, ticker, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get market data for %s: %w", ticker, err)
	}
	return bars, nil
}

func resolveWindow(cfg *config.Config, window dto.MarketWindow) (string, int) {
	ticker, days := window.Ticker, window.Days
	if ticker == "" {
		ticker = cfg.Evolution.DefaultTicker
	}
	if days <= 0 {
		days = cfg.Evolution.HistoryDays
	}
	return ticker, days
}
