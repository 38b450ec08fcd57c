package service

import (
	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/cache"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/telegram"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

type Service struct {
	StrategyService  StrategyService
	EvolutionService EvolutionService
	InsightService   InsightService
	TradeService     TradeService
	UserService      UserService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	notifier telegram.Notifier,
) (*Service, error) {
	selector, err := evolution.SelectorByName(cfg.Evolution.Selector)
	if err != nil {
		return nil, err
	}

	seed := cfg.Evolution.Seed
	if seed == 0 {
		seed = utils.TimeNow().UnixNano()
	}
	generator := evolution.NewSeededVariantGenerator(seed)
	optimizer := evolution.NewOptimizer(log, generator, selector, cfg.Evolution.VariantCount, cfg.Evolution.MaxWorkers)

	insightService := NewInsightService(log, inmemoryCache, repo.LinkupRepo, repo.FastinoRepo)
	evolutionService := NewEvolutionService(cfg, log, optimizer, repo, insightService, notifier)

	return &Service{
		StrategyService:  NewStrategyService(cfg, log, generator, repo.StrategyRepo, repo.MarketDataRepo),
		EvolutionService: evolutionService,
		InsightService:   insightService,
		TradeService:     NewTradeService(log, inmemoryCache, repo.TradeRepo, repo.UserRepo, repo.FastinoRepo),
		UserService:      NewUserService(log, repo.UserRepo, repo.FastinoRepo),
		SchedulerService: NewSchedulerService(cfg, log, evolutionService),
	}, nil
}
