package repository

import (
	"context"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/pkg/cache"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/ratelimit"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Repository struct {
	StrategyRepo   StrategyRepository
	EvolutionRepo  EvolutionRepository
	TradeRepo      TradeRepository
	UserRepo       UserRepository
	MarketDataRepo MarketDataRepository
	LinkupRepo     LinkupRepository
	FastinoRepo    FastinoRepository
	GeminiAIRepo   AIRepository
	UnitOfWork     UnitOfWork
}

func NewRepository(ctx context.Context, cfg *config.Config, db *gorm.DB, c cache.Cache, log *logger.Logger) (*Repository, error) {
	limiter := ratelimit.NewLimiterStore(rate.Inf, 1)

	geminiAIRepo, err := NewGeminiAIRepository(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		StrategyRepo:   NewStrategyRepository(db),
		EvolutionRepo:  NewEvolutionRepository(db),
		TradeRepo:      NewTradeRepository(db),
		UserRepo:       NewUserRepository(db),
		MarketDataRepo: NewMarketDataRepository(cfg, c, limiter, log),
		LinkupRepo:     NewLinkupRepository(cfg, limiter, log),
		FastinoRepo:    NewFastinoRepository(cfg, limiter, log),
		GeminiAIRepo:   geminiAIRepo,
		UnitOfWork:     NewUnitOfWork(db),
	}, nil
}
