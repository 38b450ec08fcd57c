// Package insight turns free text and trade history into the numeric
// adjustments the evolution engine consumes.
package insight

import (
	"strings"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
)

var (
	positiveKeywords = []string{"bullish", "positive", "growth", "upgrade", "beat", "strong", "optimistic", "rally"}
	negativeKeywords = []string{"bearish", "negative", "decline", "downgrade", "miss", "weak", "pessimistic", "sell"}
)

const (
	keywordWeight      = 0.2
	labelThreshold     = 0.3
	baseConfidence     = 0.7
	confidencePerMatch = 0.05
	// FallbackConfidence is used when no sentiment source answered.
	FallbackConfidence = 0.5
)

type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentBearish SentimentLabel = "Bearish"
	SentimentNeutral SentimentLabel = "Neutral"
)

// SentimentReading is the scored sentiment of one ticker.
type SentimentReading struct {
	Ticker     string   `json:"ticker"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
	Sources    []string `json:"sources,omitempty"`
	Positive   []string `json:"positive,omitempty"`
	Negative   []string `json:"negative,omitempty"`
}

func (r SentimentReading) Label() SentimentLabel {
	return LabelFor(r.Score)
}

func LabelFor(score float64) SentimentLabel {
	switch {
	case score > labelThreshold:
		return SentimentBullish
	case score < -labelThreshold:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// ScoreSentiment counts keyword presence (not frequency) in text.
// Confidence grows with the number of matched keywords.
func ScoreSentiment(ticker, text string) SentimentReading {
	lower := strings.ToLower(text)
	r := SentimentReading{Ticker: ticker}
	for _, w := range positiveKeywords {
		if strings.Contains(lower, w) {
			r.Score += keywordWeight
			r.Positive = append(r.Positive, w)
		}
	}
	for _, w := range negativeKeywords {
		if strings.Contains(lower, w) {
			r.Score -= keywordWeight
			r.Negative = append(r.Negative, w)
		}
	}
	r.Score = clamp(r.Score, -1, 1)
	r.Confidence = clamp(baseConfidence+confidencePerMatch*float64(len(r.Positive)+len(r.Negative)), 0, 1)
	r.Summary = truncate(text, 200)
	return r
}

// NeutralReading stands in for a ticker whose sentiment could not be fetched.
func NeutralReading(ticker, summary string) SentimentReading {
	return SentimentReading{Ticker: ticker, Confidence: FallbackConfidence, Summary: summary}
}

// AverageSentiment returns the mean score and confidence of readings.
func AverageSentiment(readings []SentimentReading) (score, confidence float64) {
	if len(readings) == 0 {
		return 0, 0
	}
	for _, r := range readings {
		score += r.Score
		confidence += r.Confidence
	}
	n := float64(len(readings))
	return score / n, confidence / n
}

// SentimentAdjustmentFrom only moves position size when the readings agree with high confidence.
func SentimentAdjustmentFrom(readings []SentimentReading) dto.SentimentAdjustment {
	adj := dto.NeutralSentimentAdjustment()
	score, confidence := AverageSentiment(readings)
	if confidence <= 0.8 {
		return adj
	}
	switch {
	case score > 0.5:
		adj.PositionSizeModifier = 1.15
	case score < -0.5:
		adj.PositionSizeModifier = 0.85
	}
	return adj
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
