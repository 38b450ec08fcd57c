package indicator

import (
	"testing"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes ...float64) []dto.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]dto.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = dto.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func repeatCloses(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   []float64
	}{
		{
			name:   "period 3 over rising closes",
			closes: []float64{1, 2, 3, 4, 5, 6},
			period: 3,
			want:   []float64{0, 0, 2, 3, 4, 5},
		},
		{
			name:   "period 1 is the close itself",
			closes: []float64{10, 20, 30},
			period: 1,
			want:   []float64{10, 20, 30},
		},
		{
			name:   "period longer than history stays at sentinel",
			closes: []float64{10, 20, 30},
			period: 5,
			want:   []float64{0, 0, 0},
		},
		{
			name:   "empty input",
			closes: []float64{},
			period: 3,
			want:   []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MovingAverage(barsFromCloses(tt.closes...), tt.period)
			require.Len(t, got, len(tt.closes))
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestMovingAverage_NonPositivePeriod(t *testing.T) {
	bars := barsFromCloses(1, 2, 3)
	assert.Nil(t, MovingAverage(bars, 0))
	assert.Nil(t, MovingAverage(bars, -4))
}

func TestRSI_LengthAndWarmup(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%3)
	}
	got := RSI(barsFromCloses(closes...), DefaultRSIPeriod)
	require.Len(t, got, len(closes))
	for i := 0; i <= DefaultRSIPeriod; i++ {
		assert.Equal(t, NeutralRSI, got[i], "index %d should be neutral", i)
	}
}

func TestRSI_EmptyInput(t *testing.T) {
	assert.Empty(t, RSI(nil, DefaultRSIPeriod))
}

func TestRSI_Regimes(t *testing.T) {
	rising := make([]float64, 30)
	falling := make([]float64, 30)
	alternating := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 200 - float64(i)
		alternating[i] = 100 + float64(i%2)
	}

	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{name: "flat market has zero loss so reads 100", closes: repeatCloses(100, 30), want: 100},
		{name: "strictly rising reads 100", closes: rising, want: 100},
		{name: "strictly falling reads 0", closes: falling, want: 0},
		{name: "alternating moves balance at 50", closes: alternating, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RSI(barsFromCloses(tt.closes...), DefaultRSIPeriod)
			for i := DefaultRSIPeriod + 1; i < len(got); i++ {
				assert.InDelta(t, tt.want, got[i], 1e-9, "index %d", i)
			}
		})
	}
}

func TestRSI_ExcludesDeltaIntoCurrentBar(t *testing.T) {
	closes := make([]float64, 25)
	for i := 0; i < 20; i++ {
		closes[i] = 100 + float64(i)
	}
	for i := 20; i < 25; i++ {
		closes[i] = closes[i-1] - 1
	}

	got := RSI(barsFromCloses(closes...), DefaultRSIPeriod)

	assert.Equal(t, 100.0, got[20], "drop into bar 20 is not visible yet")
	// window at bar 21 holds 13 gains of 1 and one loss of 1
	assert.InDelta(t, 100-100/(1+13.0), got[21], 1e-9)
}
