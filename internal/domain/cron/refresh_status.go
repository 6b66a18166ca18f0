package cron

import (
	"context"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/domain"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/dateutil"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

// RefreshStatusCronJob retiers the population every night from the running
// month's averages.
type RefreshStatusCronJob struct {
	statisticDomain domain.StatisticDomain
}

func NewRefreshStatusCronJob(statisticDomain domain.StatisticDomain) *RefreshStatusCronJob {
	return &RefreshStatusCronJob{statisticDomain: statisticDomain}
}

func (job *RefreshStatusCronJob) Do(ctx context.Context) {
	period := entity.NewPeriodMonth(xcontext.Now(ctx))
	if err := job.statisticDomain.RefreshStatuses(ctx, period); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot refresh statuses: %v", err)
	}
}

func (job *RefreshStatusCronJob) RunNow() bool {
	return false
}

func (job *RefreshStatusCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
