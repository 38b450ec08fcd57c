package indicator

import "github.com/ekant1999/StrategyEvolve/internal/dto"

// MovingAverage returns the simple moving average of close prices, aligned to bars.
// Indices before the first full window hold 0 and must not drive signals.
func MovingAverage(bars []dto.PriceBar, period int) []float64 {
	if period <= 0 {
		return nil
	}
	out := make([]float64, len(bars))
	for i := range bars {
		if i < period-1 {
			continue
		}
		var sum float64
		for j := 0; j < period; j++ {
			sum += bars[i-j].Close
		}
		out[i] = sum / float64(period)
	}
	return out
}
