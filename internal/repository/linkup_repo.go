package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/common"
	"github.com/ekant1999/StrategyEvolve/pkg/httpclient"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/ratelimit"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

var ErrProviderDisabled = errors.New("provider not configured")

var newsDomains = []string{"seekingalpha.com", "finance.yahoo.com", "bloomberg.com", "reuters.com"}

// LinkupRepository searches the web for market news through LinkUp sourced answers.
type LinkupRepository interface {
	Enabled() bool
	Search(ctx context.Context, req dto.LinkupSearchRequest) (*dto.LinkupSourcedAnswer, error)
	TickerNews(ctx context.Context, ticker string, days int) (*dto.LinkupSourcedAnswer, error)
	TickerSentiment(ctx context.Context, ticker string) (*dto.LinkupSourcedAnswer, error)
	MacroEvents(ctx context.Context) (*dto.LinkupSourcedAnswer, error)
}

type linkupRepository struct {
	cfg        config.Linkup
	httpClient httpclient.HTTPClient
	limiter    *ratelimit.LimiterStore
	log        *logger.Logger
}

func NewLinkupRepository(cfg *config.Config, limiter *ratelimit.LimiterStore, log *logger.Logger) LinkupRepository {
	limiter.Register(common.PROVIDER_LINKUP, ratelimit.PerMinute(cfg.Linkup.MaxRequestPerMin), 1)
	return &linkupRepository{
		cfg: cfg.Linkup,
		httpClient: httpclient.New(log, cfg.Linkup.BaseURL, cfg.Linkup.BaseTimeout,
			httpclient.WithBearerToken(cfg.Linkup.APIKey),
			httpclient.WithHeader("Content-Type", "application/json"),
		),
		limiter: limiter,
		log:     log,
	}
}

func (r *linkupRepository) Enabled() bool {
	return r.cfg.APIKey != ""
}

func (r *linkupRepository) Search(ctx context.Context, req dto.LinkupSearchRequest) (*dto.LinkupSourcedAnswer, error) {
	if !r.Enabled() {
		return nil, fmt.Errorf("linkup: %w", ErrProviderDisabled)
	}
	if req.OutputType == "" {
		req.OutputType = "sourcedAnswer"
	}
	if req.Depth == "" {
		req.Depth = "standard"
	}
	if err := r.limiter.Wait(ctx, common.PROVIDER_LINKUP); err != nil {
		return nil, fmt.Errorf("wait linkup limit: %w", err)
	}

	var answer dto.LinkupSourcedAnswer
	if _, err := r.httpClient.Post(ctx, "/search", req, nil, &answer); err != nil {
		return nil, fmt.Errorf("linkup search: %w", err)
	}
	answer.Answer = utils.SafeText(answer.Answer)
	return &answer, nil
}

func (r *linkupRepository) TickerNews(ctx context.Context, ticker string, days int) (*dto.LinkupSourcedAnswer, error) {
	return r.Search(ctx, dto.LinkupSearchRequest{
		Query:          fmt.Sprintf("%s stock latest news, earnings, analyst ratings, market events and price movements", ticker),
		FromDate:       fromDate(days),
		IncludeDomains: newsDomains,
		MaxResults:     10,
	})
}

func (r *linkupRepository) TickerSentiment(ctx context.Context, ticker string) (*dto.LinkupSourcedAnswer, error) {
	return r.Search(ctx, dto.LinkupSearchRequest{
		Query:      fmt.Sprintf("Market sentiment and investor opinion on %s stock right now", ticker),
		FromDate:   fromDate(3),
		MaxResults: 5,
	})
}

func (r *linkupRepository) MacroEvents(ctx context.Context) (*dto.LinkupSourcedAnswer, error) {
	return r.Search(ctx, dto.LinkupSearchRequest{
		Query:      "Latest Federal Reserve announcements, interest rate decisions, GDP data, unemployment, inflation news affecting stock market",
		Depth:      "deep",
		FromDate:   fromDate(7),
		MaxResults: 10,
	})
}

func fromDate(days int) string {
	return utils.TimeNow().AddDate(0, 0, -days).Format(utils.DateLayout)
}
