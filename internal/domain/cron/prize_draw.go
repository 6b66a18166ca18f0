package cron

import (
	"context"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/domain"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/pkg/dateutil"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

// PrizeDrawCronJob runs the monthly lottery shortly after a month closes.
// The draw is re-entrant, so a crashed run just repeats on restart.
type PrizeDrawCronJob struct {
	lotteryDomain domain.LotteryDomain
}

func NewPrizeDrawCronJob(lotteryDomain domain.LotteryDomain) *PrizeDrawCronJob {
	return &PrizeDrawCronJob{lotteryDomain: lotteryDomain}
}

func (job *PrizeDrawCronJob) Do(ctx context.Context) {
	// An empty period targets the month that just ended.
	_, err := job.lotteryDomain.DrawPrizes(ctx, &model.DrawPrizesRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot draw prizes: %v", err)
	}
}

func (job *PrizeDrawCronJob) RunNow() bool {
	return true
}

func (job *PrizeDrawCronJob) Next() time.Time {
	return dateutil.NextMonth(time.Now())
}
