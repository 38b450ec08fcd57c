package insight

import (
	"sort"
	"strings"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
)

type EntryStyle string

const (
	EntryStyleAggressive   EntryStyle = "aggressive"
	EntryStyleConservative EntryStyle = "conservative"
	EntryStyleBalanced     EntryStyle = "balanced"
)

type TradingFrequency string

const (
	FrequencyHigh   TradingFrequency = "high"
	FrequencyMedium TradingFrequency = "medium"
	FrequencyLow    TradingFrequency = "low"
)

const (
	favoriteTickerLimit = 5
	activeWindowDays    = 30
)

// BehavioralProfile summarizes how a user trades.
type BehavioralProfile struct {
	RiskAppetite             float64          `json:"risk_appetite"`
	EntryStyle               EntryStyle       `json:"preferred_entry_style"`
	PositionSizingPreference float64          `json:"position_sizing_preference"`
	TradingFrequency         TradingFrequency `json:"trading_frequency"`
	FavoriteTickers          []string         `json:"favorite_tickers"`
	Insights                 string           `json:"insights"`
}

func DefaultProfile() BehavioralProfile {
	return BehavioralProfile{
		RiskAppetite:             0.5,
		EntryStyle:               EntryStyleBalanced,
		PositionSizingPreference: 0.2,
		TradingFrequency:         FrequencyMedium,
		FavoriteTickers:          []string{},
	}
}

// ParseBehavioralProfile reads risk and style answers from a memory service.
func ParseBehavioralProfile(riskText, styleText string, trades []dto.UserTrade) BehavioralProfile {
	p := DefaultProfile()
	p.FavoriteTickers = FavoriteTickers(trades, favoriteTickerLimit)

	risk := strings.ToLower(riskText)
	switch {
	case strings.Contains(risk, "aggressive") || strings.Contains(risk, "high risk"):
		p.RiskAppetite = 0.8
		p.PositionSizingPreference = 0.3
	case strings.Contains(risk, "conservative") || strings.Contains(risk, "low risk"):
		p.RiskAppetite = 0.3
		p.PositionSizingPreference = 0.1
	}

	style := strings.ToLower(styleText)
	switch {
	case strings.Contains(style, "aggressive"):
		p.EntryStyle = EntryStyleAggressive
	case strings.Contains(style, "conservative"):
		p.EntryStyle = EntryStyleConservative
	}
	return p
}

// ProfileFromTrades builds a profile from trade history alone.
func ProfileFromTrades(trades []dto.UserTrade) BehavioralProfile {
	p := DefaultProfile()
	p.Insights = "Profile built from trade history analysis"
	if len(trades) == 0 {
		return p
	}

	total := 0.0
	for _, t := range trades {
		total += t.Quantity
	}
	p.PositionSizingPreference = clamp(total/float64(len(trades))/1000, 0, 0.5)

	perDay := float64(len(trades)) / activeWindowDays
	switch {
	case perDay > 2:
		p.TradingFrequency = FrequencyHigh
	case perDay < 0.5:
		p.TradingFrequency = FrequencyLow
	}

	p.FavoriteTickers = FavoriteTickers(trades, favoriteTickerLimit)
	return p
}

// FavoriteTickers ranks tickers by trade count, ties broken alphabetically.
func FavoriteTickers(trades []dto.UserTrade, limit int) []string {
	counts := map[string]int{}
	for _, t := range trades {
		counts[t.Ticker]++
	}
	tickers := make([]string, 0, len(counts))
	for k := range counts {
		tickers = append(tickers, k)
	}
	sort.Slice(tickers, func(i, j int) bool {
		if counts[tickers[i]] != counts[tickers[j]] {
			return counts[tickers[i]] > counts[tickers[j]]
		}
		return tickers[i] < tickers[j]
	})
	if len(tickers) > limit {
		tickers = tickers[:limit]
	}
	return tickers
}

// BehavioralAdjustmentFrom expresses the profile as modifiers on the current parameters.
// The position modifier moves currentPositionSize to 1.2x the user's preferred size.
func BehavioralAdjustmentFrom(p BehavioralProfile, currentPositionSize float64) dto.BehavioralAdjustment {
	adj := dto.NeutralBehavioralAdjustment()
	if currentPositionSize > 0 {
		adj.PositionSizingModifier = clamp(p.PositionSizingPreference*1.2, 0.05, 1) / currentPositionSize
	}

	switch p.EntryStyle {
	case EntryStyleAggressive:
		adj.RSIThresholdAdjustment = -5
	case EntryStyleConservative:
		adj.RSIThresholdAdjustment = 5
	}

	switch {
	case p.RiskAppetite > 0.7:
		adj.MASensitivityAdjustment = -2
	case p.RiskAppetite < 0.4:
		adj.MASensitivityAdjustment = 2
	}
	return adj
}
