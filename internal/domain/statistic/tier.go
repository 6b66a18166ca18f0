package statistic

import (
	"math"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"golang.org/x/exp/slices"
)

// Thresholds are the period's status cut lines over per-player average fuel
// points. Hero holds the 50th percentile, Legend the 90th, computed by
// nearest rank over the population sorted descending.
type Thresholds struct {
	Hero   float64
	Legend float64
}

func nearestRank(n int, percentile float64) int {
	return int(math.Ceil((1 - percentile) * float64(n)))
}

// ComputeThresholds derives the cut lines from the whole population's
// averages, zero-earners included. An empty population yields unreachable
// thresholds so nobody tiers up.
func ComputeThresholds(averages []float64) Thresholds {
	if len(averages) == 0 {
		return Thresholds{Hero: math.Inf(1), Legend: math.Inf(1)}
	}

	sorted := slices.Clone(averages)
	slices.SortFunc(sorted, func(a, b float64) bool { return a > b })

	return Thresholds{
		Hero:   sorted[nearestRank(len(sorted), 0.5)-1],
		Legend: sorted[nearestRank(len(sorted), 0.9)-1],
	}
}

// TierFor places one average against the thresholds. Ties land on the
// higher tier. A player who earned nothing stays commander even when an
// idle population drags the cut lines down to zero.
func TierFor(average float64, thresholds Thresholds) entity.UserStatus {
	if average <= 0 {
		return entity.Commander
	}

	switch {
	case average >= thresholds.Legend:
		return entity.Legend
	case average >= thresholds.Hero:
		return entity.Hero
	default:
		return entity.Commander
	}
}
