package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/ratelimit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository turns evolution results into a short human readable narrative.
type AIRepository interface {
	Enabled() bool
	Narrate(ctx context.Context, prompt string) (string, error)
}

type geminiAIRepository struct {
	cfg            config.Gemini
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository returns a disabled repository when no API key is configured.
func NewGeminiAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	if cfg.Gemini.APIKey == "" {
		return &geminiAIRepository{cfg: cfg.Gemini, logger: log}, nil
	}

	perMinute := cfg.Gemini.MaxRequestPerMin
	if perMinute <= 0 {
		perMinute = 1
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAIRepository{
		cfg:            cfg.Gemini,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) Enabled() bool {
	return r.genAiClient != nil
}

func (r *geminiAIRepository) Narrate(ctx context.Context, prompt string) (string, error) {
	if !r.Enabled() {
		return "", fmt.Errorf("gemini: %w", ErrProviderDisabled)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}

	tokens := int(tokenResp.TotalTokens)
	r.logger.DebugContext(ctx, "Gemini token count",
		logger.IntField("total_tokens", tokens),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, tokens); err != nil {
		return "", fmt.Errorf("failed to wait for token gemini limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request gemini limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("invalid response from Gemini API: empty text")
	}
	return text, nil
}
