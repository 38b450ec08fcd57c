package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/backtest"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/insight"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/telegram"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const sentimentTickerLimit = 3

type EvolutionService interface {
	Optimize(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResult, error)
	Evolve(ctx context.Context, req dto.EvolveRequest) (*dto.EvolveResult, error)
	History(ctx context.Context, query dto.HistoryQuery) ([]dto.EvolutionEvent, error)
	// OptimizeBaseStrategies re-optimizes every stored base strategy. Used by the scheduler.
	OptimizeBaseStrategies(ctx context.Context) error
}

type evolutionService struct {
	cfg           *config.Config
	log           *logger.Logger
	optimizer     *evolution.Optimizer
	strategyRepo  repository.StrategyRepository
	evolutionRepo repository.EvolutionRepository
	tradeRepo     repository.TradeRepository
	marketRepo    repository.MarketDataRepository
	aiRepo        repository.AIRepository
	unitOfWork    repository.UnitOfWork
	insight       InsightService
	notifier      telegram.Notifier
}

func NewEvolutionService(
	cfg *config.Config,
	log *logger.Logger,
	optimizer *evolution.Optimizer,
	repo *repository.Repository,
	insightService InsightService,
	notifier telegram.Notifier,
) EvolutionService {
	return &evolutionService{
		cfg:           cfg,
		log:           log,
		optimizer:     optimizer,
		strategyRepo:  repo.StrategyRepo,
		evolutionRepo: repo.EvolutionRepo,
		tradeRepo:     repo.TradeRepo,
		marketRepo:    repo.MarketDataRepo,
		aiRepo:        repo.GeminiAIRepo,
		unitOfWork:    repo.UnitOfWork,
		insight:       insightService,
		notifier:      notifier,
	}
}

func (s *evolutionService) optimizerFor(name string) (*evolution.Optimizer, error) {
	if name == "" {
		return s.optimizer, nil
	}
	selector, err := evolution.SelectorByName(name)
	if err != nil {
		return nil, err
	}
	return s.optimizer.WithSelector(selector), nil
}

// prepare loads the base strategy and its bars, and refreshes the base metrics on
// those bars so every delta in this run is measured on the same data.
func (s *evolutionService) prepare(ctx context.Context, strategyID string, window dto.MarketWindow) (dto.Strategy, []dto.PriceBar, error) {
	base, err := getStrategy(ctx, s.strategyRepo, strategyID)
	if err != nil {
		return dto.Strategy{}, nil, err
	}
	bars, err := fetchBars(ctx, s.cfg, s.marketRepo, window)
	if err != nil {
		return dto.Strategy{}, nil, err
	}

	metrics, err := backtest.Backtest(base.Parameters, bars)
	if err != nil {
		return dto.Strategy{}, nil, fmt.Errorf("backtest base strategy %s: %w", base.ID, err)
	}
	if err := s.strategyRepo.UpdateMetrics(ctx, base.ID, metrics); err != nil {
		s.log.WarnContext(ctx, "Failed to refresh base metrics", logger.ErrorField(err), logger.StringField("strategy_id", base.ID))
	}
	return base.WithMetrics(metrics), bars, nil
}

func (s *evolutionService) Optimize(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResult, error) {
	optimizer, err := s.optimizerFor(req.Selector)
	if err != nil {
		return nil, err
	}
	base, bars, err := s.prepare(ctx, req.StrategyID, req.MarketWindow)
	if err != nil {
		return nil, err
	}

	outcome, err := optimizer.OptimizeQuantitative(ctx, base, bars)
	if err != nil {
		s.log.ErrorContext(ctx, "Quantitative optimization failed", logger.ErrorField(err), logger.StringField("strategy_id", base.ID))
		return nil, err
	}

	err = s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.strategyRepo.Create(ctx, outcome.Strategy, opts...); err != nil {
			return fmt.Errorf("failed to save optimized strategy: %w", err)
		}
		if err := s.evolutionRepo.Create(ctx, outcome.Event, opts...); err != nil {
			return fmt.Errorf("failed to save evolution event: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to persist optimization", logger.ErrorField(err))
		return nil, err
	}

	s.notify(ctx, outcome.Event, outcome.Strategy)
	return &dto.OptimizeResult{
		Base:      base,
		Strategy:  outcome.Strategy,
		Event:     outcome.Event,
		Evaluated: outcome.Evaluated,
		Failed:    outcome.Failed,
	}, nil
}

// Evolve runs the full cycle for one user: quantitative optimization, then a hybrid
// adjusted by the user's behavior and current market sentiment.
func (s *evolutionService) Evolve(ctx context.Context, req dto.EvolveRequest) (*dto.EvolveResult, error) {
	optimizer, err := s.optimizerFor(req.Selector)
	if err != nil {
		return nil, err
	}
	base, bars, err := s.prepare(ctx, req.StrategyID, req.MarketWindow)
	if err != nil {
		return nil, err
	}

	trades, err := s.tradeRepo.ListByUser(ctx, req.UserID)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to load user trades", logger.ErrorField(err), logger.StringField("user_id", req.UserID))
	}

	var (
		profile  insight.BehavioralProfile
		readings []insight.SentimentReading
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile = s.insight.BehavioralProfile(gctx, req.UserID, trades)
		return nil
	})
	g.Go(func() error {
		readings = s.insight.Sentiment(gctx, s.sentimentTickers(trades))
		return nil
	})
	// both lookups fall back to neutral readings and never fail the group
	_ = g.Wait()

	quant, err := optimizer.OptimizeQuantitative(ctx, base, bars)
	if err != nil {
		s.log.ErrorContext(ctx, "Quantitative optimization failed", logger.ErrorField(err), logger.StringField("strategy_id", base.ID))
		return nil, err
	}
	optimized := quant.Strategy
	optimized.UserID = &req.UserID

	behavioral := insight.BehavioralAdjustmentFrom(profile, optimized.Parameters.PositionSize)
	sentiment := insight.SentimentAdjustmentFrom(readings)
	hybrid, err := optimizer.SynthesizeHybrid(ctx, base, optimized, behavioral, sentiment, bars)
	if err != nil {
		s.log.ErrorContext(ctx, "Hybrid synthesis failed", logger.ErrorField(err), logger.StringField("strategy_id", optimized.ID))
		return nil, err
	}

	narrative := s.narrate(ctx, base, hybrid.Strategy, profile, readings)
	if narrative != "" {
		hybrid.Event.Insights += "\n\n" + narrative
	}

	err = s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.strategyRepo.CreateMany(ctx, []dto.Strategy{optimized, hybrid.Strategy}, opts...); err != nil {
			return fmt.Errorf("failed to save evolved strategies: %w", err)
		}
		for _, ev := range []dto.EvolutionEvent{quant.Event, hybrid.Event} {
			if err := s.evolutionRepo.Create(ctx, ev, opts...); err != nil {
				return fmt.Errorf("failed to save evolution event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to persist evolution", logger.ErrorField(err))
		return nil, err
	}

	s.log.InfoContext(ctx, "Evolution cycle complete",
		logger.StringField("user_id", req.UserID),
		logger.StringField("base_id", base.ID),
		logger.StringField("final_id", hybrid.Strategy.ID),
		logger.FloatField("base_sharpe", base.MetricsOrZero().SharpeRatio),
		logger.FloatField("final_sharpe", hybrid.Strategy.MetricsOrZero().SharpeRatio),
	)
	s.notify(ctx, hybrid.Event, hybrid.Strategy)

	return &dto.EvolveResult{
		Base:       base,
		Optimized:  optimized,
		Final:      hybrid.Strategy,
		Events:     []dto.EvolutionEvent{quant.Event, hybrid.Event},
		Behavioral: behavioral,
		Sentiment:  sentiment,
		Narrative:  narrative,
	}, nil
}

func (s *evolutionService) History(ctx context.Context, query dto.HistoryQuery) ([]dto.EvolutionEvent, error) {
	var opts []utils.DBOption
	if query.Limit > 0 {
		opts = append(opts, utils.WithLimit(query.Limit))
	}
	if query.StrategyID != "" {
		return s.evolutionRepo.ListByStrategy(ctx, query.StrategyID, opts...)
	}
	return s.evolutionRepo.List(ctx, opts...)
}

func (s *evolutionService) OptimizeBaseStrategies(ctx context.Context) error {
	bases, err := s.strategyRepo.ListByKind(ctx, dto.StrategyKindBase)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list base strategies", logger.ErrorField(err))
		return fmt.Errorf("failed to list base strategies: %w", err)
	}

	var failed int
	for _, base := range bases {
		if !utils.ShouldContinue(ctx, s.log) {
			return ctx.Err()
		}
		_, err := s.Optimize(ctx, dto.OptimizeRequest{StrategyID: base.ID, Selector: s.cfg.Evolution.Selector})
		if err != nil {
			failed++
			s.log.ErrorContextWithAlert(ctx, "Scheduled optimization failed",
				logger.ErrorField(err),
				logger.StringField("strategy_id", base.ID),
				logger.StringField("strategy_name", base.Name),
			)
		}
	}

	s.log.InfoContext(ctx, "Scheduled optimization finished",
		logger.IntField("strategies", len(bases)),
		logger.IntField("failed", failed),
	)
	return nil
}

func (s *evolutionService) sentimentTickers(trades []dto.UserTrade) []string {
	tickers := insight.FavoriteTickers(trades, sentimentTickerLimit)
	if len(tickers) == 0 {
		tickers = s.cfg.Evolution.SentimentTicker
	}
	if len(tickers) > sentimentTickerLimit {
		tickers = tickers[:sentimentTickerLimit]
	}
	return tickers
}

func (s *evolutionService) narrate(ctx context.Context, base, final dto.Strategy, profile insight.BehavioralProfile, readings []insight.SentimentReading) string {
	if s.aiRepo == nil || !s.aiRepo.Enabled() {
		return ""
	}
	text, err := s.aiRepo.Narrate(ctx, narrativePrompt(base, final, profile, readings))
	if err != nil {
		s.log.WarnContext(ctx, "Failed to generate evolution narrative", logger.ErrorField(err))
		return ""
	}
	return text
}

func (s *evolutionService) notify(ctx context.Context, event dto.EvolutionEvent, strategy dto.Strategy) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyEvolution(ctx, event, strategy); err != nil {
		s.log.WarnContext(ctx, "Failed to send evolution notification", logger.ErrorField(err), logger.StringField("event_id", event.ID))
	}
}

func narrativePrompt(base, final dto.Strategy, profile insight.BehavioralProfile, readings []insight.SentimentReading) string {
	bm, fm := base.MetricsOrZero(), final.MetricsOrZero()
	score, _ := insight.AverageSentiment(readings)

	var b strings.Builder
	b.WriteString("You are a trading strategy analyst. In at most three sentences, explain to a retail trader ")
	b.WriteString("why the evolved strategy differs from the base strategy. Do not give financial advice.\n\n")
	fmt.Fprintf(&b, "Base: MA %d/%d, RSI threshold %.1f, position size %.2f. Sharpe %.2f, return %.2f%%, max drawdown %.2f%%.\n",
		base.Parameters.MAShort, base.Parameters.MALong, base.Parameters.RSIThreshold, base.Parameters.PositionSize,
		bm.SharpeRatio, bm.TotalReturn, bm.MaxDrawdown)
	fmt.Fprintf(&b, "Evolved: MA %d/%d, RSI threshold %.1f, position size %.2f. Sharpe %.2f, return %.2f%%, max drawdown %.2f%%.\n",
		final.Parameters.MAShort, final.Parameters.MALong, final.Parameters.RSIThreshold, final.Parameters.PositionSize,
		fm.SharpeRatio, fm.TotalReturn, fm.MaxDrawdown)
	fmt.Fprintf(&b, "Trader profile: risk appetite %.1f, %s entries, %s frequency.\n",
		profile.RiskAppetite, profile.EntryStyle, profile.TradingFrequency)
	fmt.Fprintf(&b, "Market sentiment: %s (%.2f).\n", insight.LabelFor(score), score)
	return b.String()
}
