package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/cache"
	"github.com/ekant1999/StrategyEvolve/pkg/common"
	"github.com/ekant1999/StrategyEvolve/pkg/httpclient"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/ratelimit"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

const alphaVantageCompactSize = 100

var ErrMarketDataUnavailable = errors.New("market data unavailable")

type MarketDataRepository interface {
	// GetHistorical returns up to days bars in ascending date order. It never fails
	// for provider errors; those fall back to synthetic bars.
	GetHistorical(ctx context.Context, ticker string, days int) ([]dto.PriceBar, error)
}

type marketDataRepository struct {
	cfg        config.MarketData
	ttl        time.Duration
	httpClient httpclient.HTTPClient
	cache      cache.Cache
	limiter    *ratelimit.LimiterStore
	log        *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMarketDataRepository(cfg *config.Config, c cache.Cache, limiter *ratelimit.LimiterStore, log *logger.Logger) MarketDataRepository {
	limiter.Register(common.PROVIDER_ALPHA_VANTAGE, ratelimit.PerMinute(cfg.MarketData.MaxRequestPerMin), 1)

	seed := cfg.Evolution.Seed
	if seed == 0 {
		seed = utils.TimeNow().UnixNano()
	}
	return &marketDataRepository{
		cfg:        cfg.MarketData,
		ttl:        cfg.Cache.MarketDataTTL,
		httpClient: httpclient.New(log, cfg.MarketData.BaseURL, cfg.MarketData.BaseTimeout, httpclient.WithRetry(2, time.Second)),
		cache:      c,
		limiter:    limiter,
		log:        log,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (r *marketDataRepository) GetHistorical(ctx context.Context, ticker string, days int) ([]dto.PriceBar, error) {
	if days <= 0 {
		return nil, dto.NewValidationError("days", fmt.Sprintf("must be > 0, got %d", days))
	}
	key := fmt.Sprintf(common.KEY_MARKET_DATA, ticker, days)
	if bars, ok := cache.GetAs[[]dto.PriceBar](r.cache, key); ok {
		return bars, nil
	}

	if r.cfg.APIKey == "" {
		r.log.DebugContext(ctx, "No market data API key, using synthetic bars", logger.StringField("ticker", ticker))
		return r.synthetic(days), nil
	}

	bars, err := r.fetchDaily(ctx, ticker, days)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.WarnContext(ctx, "Market data provider failed, using synthetic bars",
			logger.StringField("ticker", ticker),
			logger.ErrorField(err),
		)
		return r.synthetic(days), nil
	}

	r.cache.Set(key, bars, r.ttl)
	return bars, nil
}

func (r *marketDataRepository) fetchDaily(ctx context.Context, ticker string, days int) ([]dto.PriceBar, error) {
	if err := r.limiter.Wait(ctx, common.PROVIDER_ALPHA_VANTAGE); err != nil {
		return nil, fmt.Errorf("wait alpha vantage limit: %w", err)
	}

	outputSize := "compact"
	if days > alphaVantageCompactSize {
		outputSize = "full"
	}
	params := map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     ticker,
		"outputsize": outputSize,
		"apikey":     r.cfg.APIKey,
	}

	var resp dto.AlphaVantageDailyResponse
	if _, err := r.httpClient.Get(ctx, "/query", params, nil, &resp); err != nil {
		return nil, err
	}
	switch {
	case resp.ErrorMessage != "":
		return nil, fmt.Errorf("%w: %s", ErrMarketDataUnavailable, resp.ErrorMessage)
	case resp.Note != "":
		return nil, fmt.Errorf("%w: rate limited: %s", ErrMarketDataUnavailable, resp.Note)
	case resp.Information != "":
		return nil, fmt.Errorf("%w: %s", ErrMarketDataUnavailable, resp.Information)
	case len(resp.TimeSeries) == 0:
		return nil, fmt.Errorf("%w: empty time series for %s", ErrMarketDataUnavailable, ticker)
	}

	return parseDailySeries(resp.TimeSeries, days)
}

// parseDailySeries converts the date keyed payload into ascending bars, keeping the latest days.
func parseDailySeries(series map[string]dto.AlphaVantageDaily, days int) ([]dto.PriceBar, error) {
	bars := make([]dto.PriceBar, 0, len(series))
	for dateStr, row := range series {
		date, err := utils.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		bar := dto.PriceBar{Date: date}
		fields := []struct {
			raw string
			dst *float64
		}{
			{row.Open, &bar.Open},
			{row.High, &bar.High},
			{row.Low, &bar.Low},
			{row.Close, &bar.Close},
			{row.Volume, &bar.Volume},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f.raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parse value %q on %s: %w", f.raw, dateStr, err)
			}
			*f.dst = v
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (r *marketDataRepository) synthetic(days int) []dto.PriceBar {
	r.mu.Lock()
	defer r.mu.Unlock()
	return SyntheticBars(r.rng, days, utils.TimeNow())
}
