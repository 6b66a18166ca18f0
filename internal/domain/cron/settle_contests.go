package cron

import (
	"context"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/catalog"
	"github.com/rocketman2178/healthrocket-backend/internal/domain"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/progress"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

// SettleContestsCronJob settles every contest whose window has closed.
// Settlement is idempotent, so re-visiting already settled contests is
// harmless.
type SettleContestsCronJob struct {
	contestDomain domain.ContestDomain
	activities    *catalog.Catalog
}

func NewSettleContestsCronJob(
	contestDomain domain.ContestDomain, activities *catalog.Catalog,
) *SettleContestsCronJob {
	return &SettleContestsCronJob{contestDomain: contestDomain, activities: activities}
}

func (job *SettleContestsCronJob) Do(ctx context.Context) {
	now := xcontext.Now(ctx)
	for _, def := range job.activities.ByKind(entity.KindContest) {
		if !progress.Expired(now, def.StartTime.Time, def.DurationDays) {
			continue
		}

		_, err := job.contestDomain.Settle(ctx, &model.SettleContestRequest{ActivityID: def.ID})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot settle contest %s: %v", def.ID, err)
		}
	}
}

func (job *SettleContestsCronJob) RunNow() bool {
	return false
}

func (job *SettleContestsCronJob) Next() time.Time {
	return time.Now().Add(6 * time.Hour).Truncate(time.Hour)
}
