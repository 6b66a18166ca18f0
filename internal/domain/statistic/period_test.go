package statistic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_ToLastPeriod(t *testing.T) {
	current := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	month, err := ToLastPeriod("month", current)
	require.NoError(t, err)
	require.Equal(t, "May:2024", month.Period())

	week, err := ToLastPeriod("week", current)
	require.NoError(t, err)
	require.Equal(t, "23:2024", week.Period())

	_, err = ToLastPeriod("quarter", current)
	require.Error(t, err)
}
