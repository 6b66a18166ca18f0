package statistic

import (
	"math"
	"testing"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_ComputeThresholds(t *testing.T) {
	averages := []float64{120, 85, 65, 45, 30, 25, 20, 15, 10, 5}

	thresholds := ComputeThresholds(averages)
	require.Equal(t, float64(30), thresholds.Hero)
	require.Equal(t, float64(120), thresholds.Legend)

	require.Equal(t, entity.Legend, TierFor(120, thresholds))
	require.Equal(t, entity.Hero, TierFor(85, thresholds))
	require.Equal(t, entity.Hero, TierFor(30, thresholds))
	require.Equal(t, entity.Commander, TierFor(25, thresholds))
	require.Equal(t, entity.Commander, TierFor(0, thresholds))
}

func Test_ComputeThresholds_Ties(t *testing.T) {
	// Everyone equal: the shared value is both cut lines and everyone
	// lands on Legend together.
	thresholds := ComputeThresholds([]float64{40, 40, 40, 40})
	require.Equal(t, float64(40), thresholds.Hero)
	require.Equal(t, float64(40), thresholds.Legend)
	require.Equal(t, entity.Legend, TierFor(40, thresholds))
}

func Test_TierFor_IdlePopulation(t *testing.T) {
	// All-zero averages collapse both cut lines to zero. Zero earners must
	// not ride the degenerate thresholds up to Legend.
	thresholds := ComputeThresholds([]float64{0, 0, 0})
	require.Equal(t, float64(0), thresholds.Hero)
	require.Equal(t, float64(0), thresholds.Legend)
	require.Equal(t, entity.Commander, TierFor(0, thresholds))
}

func Test_TierFor_ZeroEarnerAmongActive(t *testing.T) {
	thresholds := ComputeThresholds([]float64{50, 20, 0, 0})
	require.Equal(t, entity.Commander, TierFor(0, thresholds))
	require.Equal(t, entity.Legend, TierFor(50, thresholds))
}

func Test_ComputeThresholds_SinglePlayer(t *testing.T) {
	thresholds := ComputeThresholds([]float64{12})
	require.Equal(t, float64(12), thresholds.Hero)
	require.Equal(t, float64(12), thresholds.Legend)
}

func Test_ComputeThresholds_Empty(t *testing.T) {
	thresholds := ComputeThresholds(nil)
	require.True(t, math.IsInf(thresholds.Hero, 1))
	require.Equal(t, entity.Commander, TierFor(0, thresholds))
}

func Test_ComputeThresholds_DoesNotMutateInput(t *testing.T) {
	averages := []float64{5, 10, 120}
	ComputeThresholds(averages)
	require.Equal(t, []float64{5, 10, 120}, averages)
}
