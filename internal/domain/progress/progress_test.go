package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func Test_DaysRemaining(t *testing.T) {
	started := date(2024, time.March, 1, 9)

	require.Equal(t, 30, DaysRemaining(date(2024, time.March, 1, 23), started, 30))
	require.Equal(t, 20, DaysRemaining(date(2024, time.March, 11, 0), started, 30))
	require.Equal(t, 0, DaysRemaining(date(2024, time.March, 31, 1), started, 30))

	// Long past the window it stays at zero.
	require.Equal(t, 0, DaysRemaining(date(2024, time.June, 1, 0), started, 30))
}

func Test_DaysRemaining_MidnightNormalized(t *testing.T) {
	// A late-evening start and an early-morning check differ by one whole
	// day even though fewer than 24 hours passed.
	started := date(2024, time.March, 1, 23)
	now := date(2024, time.March, 2, 1)
	require.Equal(t, 6, DaysRemaining(now, started, 7))
}

func Test_DaysUntilStart(t *testing.T) {
	start := date(2024, time.April, 10, 0)

	require.Equal(t, 9, DaysUntilStart(date(2024, time.April, 1, 15), start))
	require.Equal(t, 0, DaysUntilStart(start, start))
	require.Equal(t, 0, DaysUntilStart(date(2024, time.April, 11, 0), start))
}

func Test_Expired(t *testing.T) {
	started := date(2024, time.March, 1, 9)

	require.False(t, Expired(date(2024, time.March, 30, 23), started, 30))
	require.True(t, Expired(date(2024, time.March, 31, 0), started, 30))
}

func Test_CountPercent(t *testing.T) {
	require.Equal(t, float64(0), CountPercent(0, 8))
	require.Equal(t, float64(50), CountPercent(4, 8))
	require.Equal(t, float64(100), CountPercent(8, 8))

	// Over-counting clamps.
	require.Equal(t, float64(100), CountPercent(12, 8))

	// No requirement means done.
	require.Equal(t, float64(100), CountPercent(0, 0))
}

func Test_QuestPercent(t *testing.T) {
	require.Equal(t, float64(0), QuestPercent(0, 2, 0, 5))
	require.Equal(t, float64(100), QuestPercent(2, 2, 5, 5))

	// Only challenges done contributes its 60 percent.
	require.InDelta(t, 60, QuestPercent(2, 2, 0, 5), 1e-9)

	// Only boosts done contributes its 40 percent.
	require.InDelta(t, 40, QuestPercent(0, 2, 5, 5), 1e-9)

	require.InDelta(t, 0.6*50+0.4*20, QuestPercent(1, 2, 1, 5), 1e-9)
}
