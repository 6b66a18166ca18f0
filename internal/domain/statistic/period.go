package statistic

import (
	"fmt"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/dateutil"
)

func ToPeriodWithTime(periodString string, current time.Time) (entity.PeriodType, error) {
	switch periodString {
	case "week":
		return entity.NewPeriodWeek(current), nil
	case "month":
		return entity.NewPeriodMonth(current), nil
	}

	return nil, fmt.Errorf("invalid period, expected week or month, but got %s", periodString)
}

func ToLastPeriod(periodString string, current time.Time) (entity.PeriodType, error) {
	switch periodString {
	case "week":
		return entity.NewPeriodWeek(current.AddDate(0, 0, -7)), nil
	case "month":
		return entity.NewPeriodMonth(dateutil.LastMonth(current)), nil
	}

	return nil, fmt.Errorf("invalid period, expected week or month, but got %s", periodString)
}
