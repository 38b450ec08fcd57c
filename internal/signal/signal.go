// Package signal classifies bars of the MA crossover + RSI rule.
//
// Entry and exit are asymmetric: an entry needs the trend and the RSI filter to
// agree, while an exit fires on a bearish trend or on an RSI above the threshold.
package signal

import (
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/indicator"
)

type Action int

const (
	Hold Action = iota
	Enter
	Exit
)

func (a Action) String() string {
	switch a {
	case Enter:
		return "ENTER"
	case Exit:
		return "EXIT"
	default:
		return "HOLD"
	}
}

// Bullish reports an entry condition.
func Bullish(maShort, maLong, rsi, rsiThreshold float64) bool {
	return maShort > maLong && rsi < 100-rsiThreshold
}

// Bearish reports an exit condition.
func Bearish(maShort, maLong, rsi, rsiThreshold float64) bool {
	return maShort < maLong || rsi > rsiThreshold
}

// Series holds the indicator columns a strategy is evaluated against.
type Series struct {
	MAShort      []float64
	MALong       []float64
	RSI          []float64
	RSIThreshold float64
}

// NewSeries computes all indicator columns for params over bars.
func NewSeries(params dto.StrategyParameters, bars []dto.PriceBar) Series {
	return Series{
		MAShort:      indicator.MovingAverage(bars, params.MAShort),
		MALong:       indicator.MovingAverage(bars, params.MALong),
		RSI:          indicator.RSI(bars, indicator.DefaultRSIPeriod),
		RSIThreshold: params.RSIThreshold,
	}
}

// WarmupIndex is the first bar where both moving averages and the RSI are defined.
func WarmupIndex(params dto.StrategyParameters) int {
	if params.MALong > indicator.DefaultRSIPeriod {
		return params.MALong
	}
	return indicator.DefaultRSIPeriod
}

func (s Series) Bullish(i int) bool {
	return Bullish(s.MAShort[i], s.MALong[i], s.RSI[i], s.RSIThreshold)
}

func (s Series) Bearish(i int) bool {
	return Bearish(s.MAShort[i], s.MALong[i], s.RSI[i], s.RSIThreshold)
}

// Classify decides what a single-position trader does at bar i.
func (s Series) Classify(i int, inPosition bool) Action {
	if !inPosition && s.Bullish(i) {
		return Enter
	}
	if inPosition && s.Bearish(i) {
		return Exit
	}
	return Hold
}
