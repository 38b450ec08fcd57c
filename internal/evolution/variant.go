// Package evolution searches the neighborhood of a strategy and folds external
// adjustments into the winner.
package evolution

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"github.com/google/uuid"
)

// Perturbation bounds of the random local search.
const (
	MAShortJitter      = 5.0
	MALongJitter       = 10.0
	RSIThresholdJitter = 5.0
	PositionSizeMinMul = 0.8
	PositionSizeMaxMul = 1.2
)

// VariantGenerator draws random neighbors of a base strategy. It is safe for concurrent use.
type VariantGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewVariantGenerator(rng *rand.Rand) *VariantGenerator {
	return &VariantGenerator{rng: rng, now: utils.TimeNow}
}

func NewSeededVariantGenerator(seed int64) *VariantGenerator {
	return NewVariantGenerator(rand.New(rand.NewSource(seed)))
}

// Generate returns count perturbed copies of base. Variants are not clamped, so a
// variant may carry parameters that fail validation later in the backtest.
func (g *VariantGenerator) Generate(base dto.Strategy, count int) ([]dto.Strategy, error) {
	if err := base.Parameters.Validate(); err != nil {
		return nil, fmt.Errorf("base strategy %q: %w", base.ID, err)
	}
	if count <= 0 {
		return []dto.Strategy{}, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	parentID := base.ID
	createdAt := g.now()
	variants := make([]dto.Strategy, 0, count)
	for i := 0; i < count; i++ {
		p := base.Parameters
		p.MAShort += int(math.Round(g.uniform(-MAShortJitter, MAShortJitter)))
		p.MALong += int(math.Round(g.uniform(-MALongJitter, MALongJitter)))
		p.RSIThreshold += g.uniform(-RSIThresholdJitter, RSIThresholdJitter)
		p.PositionSize *= g.uniform(PositionSizeMinMul, PositionSizeMaxMul)

		variants = append(variants, dto.Strategy{
			ID:         uuid.NewString(),
			UserID:     base.UserID,
			Name:       fmt.Sprintf("%s Variant %d", base.Name, i+1),
			Kind:       dto.StrategyKindOptimized,
			Parameters: p,
			ParentID:   &parentID,
			CreatedAt:  createdAt,
		})
	}
	return variants, nil
}

func (g *VariantGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
