package migration

import (
	"context"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.StatusHistory{},
		&entity.ActivityDefinition{},
		&entity.ActivityInstance{},
		&entity.CompletedActivity{},
		&entity.FuelLog{},
		&entity.Boost{},
		&entity.BoostCompletion{},
		&entity.Prize{},
		&entity.PrizeDistribution{},
		&entity.ContestPayout{},
	)
}
