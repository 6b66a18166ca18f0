package cron

import (
	"context"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/domain"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

// ExpireActivitiesCronJob sweeps overdue instances hourly. Reads reconcile
// lazily in between, so the sweep only bounds how long a dead row lingers.
type ExpireActivitiesCronJob struct {
	activityDomain domain.ActivityDomain
}

func NewExpireActivitiesCronJob(activityDomain domain.ActivityDomain) *ExpireActivitiesCronJob {
	return &ExpireActivitiesCronJob{activityDomain: activityDomain}
}

func (job *ExpireActivitiesCronJob) Do(ctx context.Context) {
	if err := job.activityDomain.ExpireOverdue(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot expire overdue activities: %v", err)
	}
}

func (job *ExpireActivitiesCronJob) RunNow() bool {
	return true
}

func (job *ExpireActivitiesCronJob) Next() time.Time {
	return time.Now().Add(time.Hour).Truncate(time.Hour)
}
