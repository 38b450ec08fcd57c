package repository

import (
	"math"
	"math/rand"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
)

const (
	syntheticVolatility = 0.02
	syntheticMinVolume  = 1_000_000
	syntheticVolumeSpan = 5_000_000
)

// SyntheticBars generates days weekday bars ending on or before end: a random walk
// with a slow sinusoidal trend and 2% daily noise, each open at the previous close.
func SyntheticBars(rng *rand.Rand, days int, end time.Time) []dto.PriceBar {
	if days <= 0 {
		return []dto.PriceBar{}
	}

	dates := make([]time.Time, days)
	d := utils.DateOnly(end)
	for i := days - 1; i >= 0; i-- {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, -1)
		}
		dates[i] = d
		d = d.AddDate(0, 0, -1)
	}

	bars := make([]dto.PriceBar, days)
	price := 100 + rng.Float64()*400
	for i := range bars {
		trend := math.Sin(float64(i)/20) * 0.002
		noise := (rng.Float64() - 0.5) * syntheticVolatility
		price *= 1 + trend + noise

		open := price
		if i > 0 {
			open = bars[i-1].Close
		}
		bars[i] = dto.PriceBar{
			Date:   dates[i],
			Open:   open,
			High:   math.Max(open, price) * (1 + rng.Float64()*0.01),
			Low:    math.Min(open, price) * (1 - rng.Float64()*0.01),
			Close:  price,
			Volume: math.Floor(syntheticMinVolume + rng.Float64()*syntheticVolumeSpan),
		}
	}
	return bars
}
