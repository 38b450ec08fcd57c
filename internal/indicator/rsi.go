package indicator

import "github.com/ekant1999/StrategyEvolve/internal/dto"

const (
	DefaultRSIPeriod = 14
	NeutralRSI       = 50.0
)

// RSI computes a windowed relative strength index over close-to-close deltas.
//
// Gains and losses are averaged with a plain mean over the trailing `period` deltas
// (no Wilder smoothing). The first `period` delta slots are NeutralRSI and a zero
// average loss yields 100. A leading NeutralRSI is prepended so the result lines up
// with bars; note the value at bar i therefore excludes the delta into bar i.
func RSI(bars []dto.PriceBar, period int) []float64 {
	if len(bars) == 0 {
		return []float64{}
	}
	if period <= 0 {
		period = DefaultRSIPeriod
	}

	gains := make([]float64, 0, len(bars)-1)
	losses := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	out := make([]float64, 1, len(bars))
	out[0] = NeutralRSI
	for i := range gains {
		if i < period {
			out = append(out, NeutralRSI)
			continue
		}
		var sumGain, sumLoss float64
		for j := i - period; j < i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)
		if avgLoss == 0 {
			out = append(out, 100)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100-100/(1+rs))
	}
	return out
}
