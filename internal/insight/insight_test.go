package insight

import (
	"testing"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestScoreSentiment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantScore float64
		wantConf  float64
		wantLabel SentimentLabel
	}{
		{name: "empty", text: "", wantScore: 0, wantConf: 0.7, wantLabel: SentimentNeutral},
		{name: "bullish news", text: "Strong GROWTH and a rally after the earnings beat", wantScore: 0.8, wantConf: 0.9, wantLabel: SentimentBullish},
		{name: "bearish news", text: "Analysts downgrade the stock on weak guidance, rating: sell", wantScore: -0.6, wantConf: 0.85, wantLabel: SentimentBearish},
		{name: "mixed cancels out", text: "positive outlook but weak margins", wantScore: 0, wantConf: 0.8, wantLabel: SentimentNeutral},
		{name: "repeated keyword counts once", text: "rally rally rally", wantScore: 0.2, wantConf: 0.75, wantLabel: SentimentNeutral},
		{name: "clamped at one", text: "bullish positive growth upgrade beat strong optimistic", wantScore: 1, wantConf: 1, wantLabel: SentimentBullish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreSentiment("AAPL", tt.text)
			assert.Equal(t, "AAPL", got.Ticker)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
			assert.Equal(t, tt.wantLabel, got.Label())
		})
	}
}

func TestSentimentAdjustmentFrom(t *testing.T) {
	tests := []struct {
		name     string
		readings []SentimentReading
		want     float64
	}{
		{name: "no readings", want: 1},
		{name: "confident bullish", readings: []SentimentReading{{Score: 0.8, Confidence: 0.9}, {Score: 0.6, Confidence: 0.85}}, want: 1.15},
		{name: "confident bearish", readings: []SentimentReading{{Score: -0.8, Confidence: 0.95}}, want: 0.85},
		{name: "bullish but unsure", readings: []SentimentReading{{Score: 0.8, Confidence: 0.9}, NeutralReading("MSFT", "unavailable")}, want: 1},
		{name: "confident but mild", readings: []SentimentReading{{Score: 0.4, Confidence: 0.95}}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SentimentAdjustmentFrom(tt.readings)
			assert.Equal(t, tt.want, got.PositionSizeModifier)
			assert.Zero(t, got.RSIThresholdAdjustment)
		})
	}
}

func trades(tickers ...string) []dto.UserTrade {
	out := make([]dto.UserTrade, len(tickers))
	for i, tk := range tickers {
		out[i] = dto.UserTrade{Ticker: tk, Action: dto.TradeActionBuy, Quantity: 100, Price: 10, Timestamp: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	}
	return out
}

func TestParseBehavioralProfile(t *testing.T) {
	tests := []struct {
		name      string
		risk      string
		style     string
		wantRisk  float64
		wantPref  float64
		wantStyle EntryStyle
	}{
		{name: "aggressive", risk: "This user takes HIGH RISK positions", style: "aggressive entries on breakouts", wantRisk: 0.8, wantPref: 0.3, wantStyle: EntryStyleAggressive},
		{name: "conservative", risk: "Low risk, small positions", style: "Conservative, waits for pullbacks", wantRisk: 0.3, wantPref: 0.1, wantStyle: EntryStyleConservative},
		{name: "unknown", risk: "no data", style: "", wantRisk: 0.5, wantPref: 0.2, wantStyle: EntryStyleBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseBehavioralProfile(tt.risk, tt.style, trades("NVDA", "AAPL", "NVDA"))
			assert.Equal(t, tt.wantRisk, p.RiskAppetite)
			assert.Equal(t, tt.wantPref, p.PositionSizingPreference)
			assert.Equal(t, tt.wantStyle, p.EntryStyle)
			assert.Equal(t, []string{"NVDA", "AAPL"}, p.FavoriteTickers)
		})
	}
}

func TestProfileFromTrades(t *testing.T) {
	empty := ProfileFromTrades(nil)
	assert.Equal(t, DefaultProfile().RiskAppetite, empty.RiskAppetite)
	assert.Equal(t, FrequencyMedium, empty.TradingFrequency)
	assert.Empty(t, empty.FavoriteTickers)

	few := ProfileFromTrades(trades("TSLA", "TSLA", "AMZN"))
	assert.Equal(t, FrequencyLow, few.TradingFrequency)
	assert.InDelta(t, 0.1, few.PositionSizingPreference, 1e-9)
	assert.Equal(t, []string{"TSLA", "AMZN"}, few.FavoriteTickers)

	many := make([]string, 0, 70)
	for i := 0; i < 70; i++ {
		many = append(many, []string{"A", "B", "C", "D", "E", "F", "G"}[i%7])
	}
	busy := ProfileFromTrades(trades(many...))
	assert.Equal(t, FrequencyHigh, busy.TradingFrequency)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, busy.FavoriteTickers)

	big := trades("SPY")
	big[0].Quantity = 5000
	assert.Equal(t, 0.5, ProfileFromTrades(big).PositionSizingPreference)
}

func TestBehavioralAdjustmentFrom(t *testing.T) {
	tests := []struct {
		name    string
		profile BehavioralProfile
		current float64
		wantMod float64
		wantRSI float64
		wantMA  float64
	}{
		{
			name:    "aggressive",
			profile: BehavioralProfile{RiskAppetite: 0.8, EntryStyle: EntryStyleAggressive, PositionSizingPreference: 0.3},
			current: 0.1, wantMod: 3.6, wantRSI: -5, wantMA: -2,
		},
		{
			name:    "conservative",
			profile: BehavioralProfile{RiskAppetite: 0.3, EntryStyle: EntryStyleConservative, PositionSizingPreference: 0.1},
			current: 0.1, wantMod: 1.2, wantRSI: 5, wantMA: 2,
		},
		{
			name:    "balanced",
			profile: DefaultProfile(),
			current: 0.2, wantMod: 1.2,
		},
		{
			name:    "tiny preference floors at five percent",
			profile: BehavioralProfile{RiskAppetite: 0.5, EntryStyle: EntryStyleBalanced, PositionSizingPreference: 0.01},
			current: 0.1, wantMod: 0.5,
		},
		{
			name:    "no current size keeps modifier neutral",
			profile: DefaultProfile(),
			current: 0, wantMod: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BehavioralAdjustmentFrom(tt.profile, tt.current)
			assert.InDelta(t, tt.wantMod, got.PositionSizingModifier, 1e-9)
			assert.Equal(t, tt.wantRSI, got.RSIThresholdAdjustment)
			assert.Equal(t, tt.wantMA, got.MASensitivityAdjustment)
		})
	}
}
