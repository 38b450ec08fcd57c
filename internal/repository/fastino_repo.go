package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/common"
	"github.com/ekant1999/StrategyEvolve/pkg/httpclient"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/ratelimit"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

const fastinoPurpose = "Trading strategy optimization agent that learns user's behavioral patterns, trading edge, and decision-making style to create personalized hybrid strategies"

// FastinoRepository is the user memory service: trades go in, behavioral answers come out.
type FastinoRepository interface {
	Enabled() bool
	RegisterUser(ctx context.Context, user dto.User) error
	IngestTrade(ctx context.Context, trade dto.UserTrade) error
	Query(ctx context.Context, userID, question string) (string, error)
	Summary(ctx context.Context, userID string, maxChars int) (string, error)
}

type fastinoRepository struct {
	cfg        config.Fastino
	httpClient httpclient.HTTPClient
	limiter    *ratelimit.LimiterStore
	log        *logger.Logger
}

func NewFastinoRepository(cfg *config.Config, limiter *ratelimit.LimiterStore, log *logger.Logger) FastinoRepository {
	limiter.Register(common.PROVIDER_FASTINO, ratelimit.PerMinute(cfg.Fastino.MaxRequestPerMin), 1)
	return &fastinoRepository{
		cfg: cfg.Fastino,
		httpClient: httpclient.New(log, cfg.Fastino.BaseURL, cfg.Fastino.BaseTimeout,
			httpclient.WithHeader("x-api-key", cfg.Fastino.APIKey),
			httpclient.WithHeader("Content-Type", "application/json"),
		),
		limiter: limiter,
		log:     log,
	}
}

func (r *fastinoRepository) Enabled() bool {
	return r.cfg.APIKey != ""
}

func (r *fastinoRepository) wait(ctx context.Context) error {
	if !r.Enabled() {
		return fmt.Errorf("fastino: %w", ErrProviderDisabled)
	}
	if err := r.limiter.Wait(ctx, common.PROVIDER_FASTINO); err != nil {
		return fmt.Errorf("wait fastino limit: %w", err)
	}
	return nil
}

func (r *fastinoRepository) RegisterUser(ctx context.Context, user dto.User) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	name := user.Name
	if name == "" {
		name, _, _ = strings.Cut(user.Email, "@")
	}
	req := dto.FastinoRegisterRequest{
		Email:   user.Email,
		Purpose: fastinoPurpose,
		Traits:  map[string]string{"name": name, "user_id": user.ID},
	}
	if _, err := r.httpClient.Post(ctx, "/register", req, nil, nil); err != nil {
		return fmt.Errorf("fastino register: %w", err)
	}
	return nil
}

func (r *fastinoRepository) IngestTrade(ctx context.Context, trade dto.UserTrade) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	req := dto.FastinoIngestRequest{
		UserID: trade.UserID,
		Source: "trading_activity",
		Documents: []dto.FastinoDocument{{
			Content:      tradeDocument(trade),
			Title:        fmt.Sprintf("Trade: %s %s on %s", trade.Action, trade.Ticker, trade.Timestamp.Format(utils.DateLayout)),
			DocumentType: "document",
			CreatedAt:    trade.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		}},
		Options: map[string]bool{"dedupe": true},
	}
	if _, err := r.httpClient.Post(ctx, "/ingest", req, nil, nil); err != nil {
		return fmt.Errorf("fastino ingest: %w", err)
	}
	return nil
}

func (r *fastinoRepository) Query(ctx context.Context, userID, question string) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	var resp dto.FastinoQueryResponse
	req := dto.FastinoQueryRequest{UserID: userID, Question: question, UseCache: true}
	if _, err := r.httpClient.Post(ctx, "/query", req, nil, &resp); err != nil {
		return "", fmt.Errorf("fastino query: %w", err)
	}
	return utils.SafeText(resp.Answer), nil
}

func (r *fastinoRepository) Summary(ctx context.Context, userID string, maxChars int) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	var resp dto.FastinoSummaryResponse
	params := map[string]string{"user_id": userID, "max_chars": strconv.Itoa(maxChars)}
	if _, err := r.httpClient.Get(ctx, "/summary", params, nil, &resp); err != nil {
		return "", fmt.Errorf("fastino summary: %w", err)
	}
	return resp.Summary, nil
}

func tradeDocument(t dto.UserTrade) string {
	var b strings.Builder
	b.WriteString("Trade Execution:\n")
	fmt.Fprintf(&b, "Ticker: %s\n", t.Ticker)
	fmt.Fprintf(&b, "Action: %s\n", t.Action)
	fmt.Fprintf(&b, "Quantity: %g\n", t.Quantity)
	fmt.Fprintf(&b, "Price: $%.2f\n", t.Price)
	fmt.Fprintf(&b, "Total Value: $%.2f\n", t.Quantity*t.Price)
	if t.StrategyID != nil {
		fmt.Fprintf(&b, "Strategy: %s\n", *t.StrategyID)
	}
	return b.String()
}
