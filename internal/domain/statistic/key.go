package statistic

import (
	"fmt"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
)

func redisKeyFuelLeaderBoard(period entity.PeriodType) string {
	return fmt.Sprintf("fuel:%s", period.Period())
}
