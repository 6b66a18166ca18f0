package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, time.March, 1, 23, 50, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 2, 0, 10, 0, 0, time.UTC)

	// Twenty minutes apart on the clock, but one whole day apart.
	require.Equal(t, 1, DaysBetween(start, end))
	require.Equal(t, -1, DaysBetween(end, start))
	require.Equal(t, 0, DaysBetween(start, start))
}

func TestMonthsBetween(t *testing.T) {
	a := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 3, MonthsBetween(a, b))
	require.Equal(t, 0, MonthsBetween(b, a))
	require.Equal(t, 0, MonthsBetween(a, a))
}
