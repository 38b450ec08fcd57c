package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/insight"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/cache"
	"github.com/ekant1999/StrategyEvolve/pkg/common"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	styleQuestion   = "What is this user's trading style? Do they prefer aggressive entries, conservative entries, or balanced approaches? What stocks do they trade most?"
	riskQuestion    = "What is this user's risk tolerance and position sizing preference? Do they take large or small positions? How long do they typically hold trades?"
	summaryMaxChars = 500
)

// InsightService collects the outside signals a hybrid strategy is adjusted by.
// It never fails: unavailable providers degrade to neutral readings and trade based profiles.
type InsightService interface {
	Sentiment(ctx context.Context, tickers []string) []insight.SentimentReading
	BehavioralProfile(ctx context.Context, userID string, trades []dto.UserTrade) insight.BehavioralProfile
}

type insightService struct {
	log         *logger.Logger
	cache       cache.Cache
	linkupRepo  repository.LinkupRepository
	fastinoRepo repository.FastinoRepository
}

func NewInsightService(
	log *logger.Logger,
	inmemoryCache cache.Cache,
	linkupRepo repository.LinkupRepository,
	fastinoRepo repository.FastinoRepository,
) InsightService {
	return &insightService{
		log:         log,
		cache:       inmemoryCache,
		linkupRepo:  linkupRepo,
		fastinoRepo: fastinoRepo,
	}
}

func (s *insightService) Sentiment(ctx context.Context, tickers []string) []insight.SentimentReading {
	readings := make([]insight.SentimentReading, 0, len(tickers))
	for _, ticker := range tickers {
		readings = append(readings, s.tickerSentiment(ctx, ticker))
	}
	return readings
}

func (s *insightService) tickerSentiment(ctx context.Context, ticker string) insight.SentimentReading {
	key := fmt.Sprintf(common.KEY_SENTIMENT, ticker)
	if r, ok := cache.GetAs[insight.SentimentReading](s.cache, key); ok {
		return r
	}
	if !s.linkupRepo.Enabled() {
		return insight.NeutralReading(ticker, fmt.Sprintf("No news provider configured for %s. Using neutral sentiment.", ticker))
	}

	var news, opinion *dto.LinkupSourcedAnswer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		news, err = s.linkupRepo.TickerNews(gctx, ticker, 7)
		return err
	})
	g.Go(func() error {
		var err error
		opinion, err = s.linkupRepo.TickerSentiment(gctx, ticker)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.WarnContext(ctx, "Sentiment unavailable, using neutral reading",
			logger.StringField("ticker", ticker),
			logger.ErrorField(err),
		)
		return insight.NeutralReading(ticker, fmt.Sprintf("LinkUp API unavailable for %s. Using neutral sentiment.", ticker))
	}

	reading := insight.ScoreSentiment(ticker, news.Answer+" "+opinion.Answer)
	for _, src := range opinion.Sources {
		reading.Sources = append(reading.Sources, src.URL)
	}
	s.log.DebugContext(ctx, "Scored ticker sentiment",
		logger.StringField("ticker", ticker),
		logger.FloatField("score", reading.Score),
		logger.StringField("label", string(reading.Label())),
	)

	s.cache.Set(key, reading, 0)
	return reading
}

func (s *insightService) BehavioralProfile(ctx context.Context, userID string, trades []dto.UserTrade) insight.BehavioralProfile {
	key := fmt.Sprintf(common.KEY_BEHAVIOR_PROFILE, userID)
	if p, ok := cache.GetAs[insight.BehavioralProfile](s.cache, key); ok {
		return p
	}
	if !s.fastinoRepo.Enabled() {
		return insight.ProfileFromTrades(trades)
	}

	style, err := s.fastinoRepo.Query(ctx, userID, styleQuestion)
	if err != nil {
		return s.fallbackProfile(ctx, userID, trades, err)
	}
	risk, err := s.fastinoRepo.Query(ctx, userID, riskQuestion)
	if err != nil {
		return s.fallbackProfile(ctx, userID, trades, err)
	}
	summary, err := s.fastinoRepo.Summary(ctx, userID, summaryMaxChars)
	if err != nil {
		s.log.DebugContext(ctx, "Profile summary unavailable", logger.StringField("user_id", userID), logger.ErrorField(err))
	}

	profile := insight.ParseBehavioralProfile(risk, style, trades)
	parts := make([]string, 0, 3)
	for _, p := range []string{style, risk, summary} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	profile.Insights = strings.Join(parts, "\n\n")

	s.cache.Set(key, profile, 0)
	return profile
}

func (s *insightService) fallbackProfile(ctx context.Context, userID string, trades []dto.UserTrade, err error) insight.BehavioralProfile {
	s.log.WarnContext(ctx, "Behavioral profile unavailable, using trade history",
		logger.StringField("user_id", userID),
		logger.ErrorField(err),
	)
	return insight.ProfileFromTrades(trades)
}
