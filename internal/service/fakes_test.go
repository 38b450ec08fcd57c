package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/insight"
	"github.com/ekant1999/StrategyEvolve/internal/model"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

var fixedEnd = time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Evolution: config.Evolution{
			VariantCount:    20,
			MaxWorkers:      4,
			Selector:        evolution.SelectorSharpe,
			HistoryDays:     252,
			DefaultTicker:   "SPY",
			SentimentTicker: []string{"AAPL", "MSFT", "NVDA", "TSLA"},
			Seed:            11,
		},
		Scheduler: config.Scheduler{EvolveSpec: "0 22 * * 1-5", TimeoutDuration: time.Minute},
	}
}

func baseStrategy() dto.Strategy {
	return dto.Strategy{
		ID:   "base-1",
		Name: "MA Crossover + RSI",
		Kind: dto.StrategyKindBase,
		Parameters: dto.StrategyParameters{
			MAShort:      20,
			MALong:       50,
			RSIThreshold: 30,
			PositionSize: 0.1,
		},
	}
}

type fakeStrategyRepo struct {
	mu         sync.Mutex
	strategies map[string]dto.Strategy
	order      []string
	updates    int
}

func newFakeStrategyRepo(seed ...dto.Strategy) *fakeStrategyRepo {
	r := &fakeStrategyRepo{strategies: map[string]dto.Strategy{}}
	for _, s := range seed {
		_ = r.Create(context.Background(), s)
	}
	return r
}

func (r *fakeStrategyRepo) Create(_ context.Context, s dto.Strategy, _ ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *fakeStrategyRepo) CreateMany(ctx context.Context, ss []dto.Strategy, opts ...utils.DBOption) error {
	for _, s := range ss {
		if err := r.Create(ctx, s, opts...); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeStrategyRepo) GetByID(_ context.Context, id string, _ ...utils.DBOption) (*dto.Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.strategies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeStrategyRepo) List(_ context.Context, _ ...utils.DBOption) ([]dto.Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.Strategy, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.strategies[id])
	}
	return out, nil
}

func (r *fakeStrategyRepo) ListByKind(ctx context.Context, kind dto.StrategyKind, opts ...utils.DBOption) ([]dto.Strategy, error) {
	all, _ := r.List(ctx, opts...)
	out := make([]dto.Strategy, 0, len(all))
	for _, s := range all {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStrategyRepo) UpdateMetrics(_ context.Context, id string, m dto.StrategyMetrics, _ ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.strategies[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.strategies[id] = s.WithMetrics(m)
	r.updates++
	return nil
}

func (r *fakeStrategyRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

type fakeEvolutionRepo struct {
	mu     sync.Mutex
	events []dto.EvolutionEvent
}

func (r *fakeEvolutionRepo) Create(_ context.Context, e dto.EvolutionEvent, _ ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *fakeEvolutionRepo) List(_ context.Context, _ ...utils.DBOption) ([]dto.EvolutionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dto.EvolutionEvent(nil), r.events...), nil
}

func (r *fakeEvolutionRepo) ListByStrategy(ctx context.Context, id string, opts ...utils.DBOption) ([]dto.EvolutionEvent, error) {
	all, _ := r.List(ctx, opts...)
	var out []dto.EvolutionEvent
	for _, e := range all {
		if e.OldStrategyID == id || e.NewStrategyID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTradeRepo struct {
	mu     sync.Mutex
	trades []dto.UserTrade
}

func (r *fakeTradeRepo) Create(_ context.Context, t dto.UserTrade, _ ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades = append(r.trades, t)
	return nil
}

func (r *fakeTradeRepo) ListByUser(_ context.Context, userID string, _ ...utils.DBOption) ([]dto.UserTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.UserTrade
	for _, t := range r.trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string, _ ...utils.DBOption) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string, _ ...utils.DBOption) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User, _ ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

type fakeMarketRepo struct {
	bars   []dto.PriceBar
	err    error
	ticker string
	days   int
}

func newFakeMarketRepo() *fakeMarketRepo {
	return &fakeMarketRepo{bars: repository.SyntheticBars(rand.New(rand.NewSource(3)), 252, fixedEnd)}
}

func (r *fakeMarketRepo) GetHistorical(_ context.Context, ticker string, days int) ([]dto.PriceBar, error) {
	r.ticker, r.days = ticker, days
	if r.err != nil {
		return nil, r.err
	}
	return r.bars, nil
}

type fakeLinkupRepo struct {
	enabled bool
	answer  string
	err     error
	mu      sync.Mutex
	calls   int
}

func (r *fakeLinkupRepo) Enabled() bool { return r.enabled }

func (r *fakeLinkupRepo) Search(_ context.Context, _ dto.LinkupSearchRequest) (*dto.LinkupSourcedAnswer, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return &dto.LinkupSourcedAnswer{
		Answer:  r.answer,
		Sources: []dto.LinkupSource{{Name: "Reuters", URL: "https://reuters.example/a"}},
	}, nil
}

func (r *fakeLinkupRepo) TickerNews(ctx context.Context, _ string, _ int) (*dto.LinkupSourcedAnswer, error) {
	return r.Search(ctx, dto.LinkupSearchRequest{})
}

func (r *fakeLinkupRepo) TickerSentiment(ctx context.Context, _ string) (*dto.LinkupSourcedAnswer, error) {
	return r.Search(ctx, dto.LinkupSearchRequest{})
}

func (r *fakeLinkupRepo) MacroEvents(ctx context.Context) (*dto.LinkupSourcedAnswer, error) {
	return r.Search(ctx, dto.LinkupSearchRequest{})
}

type fakeFastinoRepo struct {
	enabled  bool
	answers  map[string]string
	summary  string
	err      error
	ingested []dto.UserTrade
	users    []dto.User
}

func (r *fakeFastinoRepo) Enabled() bool { return r.enabled }

func (r *fakeFastinoRepo) RegisterUser(_ context.Context, u dto.User) error {
	r.users = append(r.users, u)
	return r.err
}

func (r *fakeFastinoRepo) IngestTrade(_ context.Context, t dto.UserTrade) error {
	r.ingested = append(r.ingested, t)
	return r.err
}

func (r *fakeFastinoRepo) Query(_ context.Context, _ string, question string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.answers[question], nil
}

func (r *fakeFastinoRepo) Summary(_ context.Context, _ string, _ int) (string, error) {
	return r.summary, r.err
}

type fakeAIRepo struct {
	text   string
	prompt string
}

func (r *fakeAIRepo) Enabled() bool { return r.text != "" }

func (r *fakeAIRepo) Narrate(_ context.Context, prompt string) (string, error) {
	r.prompt = prompt
	return r.text, nil
}

type fakeUnitOfWork struct {
	runs int
}

func (u *fakeUnitOfWork) Run(_ context.Context, fn func(opts ...utils.DBOption) error) error {
	u.runs++
	return fn()
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []dto.EvolutionEvent
}

func (n *fakeNotifier) SendAlert(context.Context, string) error { return nil }

func (n *fakeNotifier) NotifyEvolution(_ context.Context, e dto.EvolutionEvent, _ dto.Strategy) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

type fakeInsight struct {
	profile  insight.BehavioralProfile
	readings []insight.SentimentReading
	tickers  []string
}

func (f *fakeInsight) Sentiment(_ context.Context, tickers []string) []insight.SentimentReading {
	f.tickers = tickers
	return f.readings
}

func (f *fakeInsight) BehavioralProfile(context.Context, string, []dto.UserTrade) insight.BehavioralProfile {
	return f.profile
}

type evolutionFixture struct {
	cfg        *config.Config
	strategies *fakeStrategyRepo
	events     *fakeEvolutionRepo
	trades     *fakeTradeRepo
	market     *fakeMarketRepo
	ai         *fakeAIRepo
	uow        *fakeUnitOfWork
	notifier   *fakeNotifier
	insight    *fakeInsight
	service    EvolutionService
}

func newEvolutionFixture() *evolutionFixture {
	f := &evolutionFixture{
		cfg:        testConfig(),
		strategies: newFakeStrategyRepo(baseStrategy()),
		events:     &fakeEvolutionRepo{},
		trades:     &fakeTradeRepo{},
		market:     newFakeMarketRepo(),
		ai:         &fakeAIRepo{},
		uow:        &fakeUnitOfWork{},
		notifier:   &fakeNotifier{},
		insight:    &fakeInsight{profile: insight.DefaultProfile()},
	}
	repo := &repository.Repository{
		StrategyRepo:   f.strategies,
		EvolutionRepo:  f.events,
		TradeRepo:      f.trades,
		MarketDataRepo: f.market,
		GeminiAIRepo:   f.ai,
		UnitOfWork:     f.uow,
	}
	log := logger.NewNop()
	optimizer := evolution.NewOptimizer(log, evolution.NewSeededVariantGenerator(f.cfg.Evolution.Seed), nil, 20, 4)
	f.service = NewEvolutionService(f.cfg, log, optimizer, repo, f.insight, f.notifier)
	return f
}
