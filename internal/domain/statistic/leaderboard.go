package statistic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/rocketman2178/healthrocket-backend/pkg/xredis"
)

type Leaderboard interface {
	GetLeaderBoard(
		ctx context.Context,
		period entity.PeriodType,
		offset, limit int,
	) ([]model.UserStatistic, error)

	GetRank(ctx context.Context, userID string, period entity.PeriodType) (uint64, error)

	ChangeFuelLeaderboard(
		ctx context.Context,
		value int64,
		earnedAt time.Time,
		userID string,
	) error
}

type leaderboard struct {
	fuelRepo    repository.FuelRepository
	redisClient xredis.Client
}

func New(fuelRepo repository.FuelRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{fuelRepo: fuelRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context,
	period entity.PeriodType,
	offset, limit int,
) ([]model.UserStatistic, error) {
	key := redisKeyFuelLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	board := []model.UserStatistic{}
	for i, z := range results {
		board = append(board, model.UserStatistic{
			UserID:      z.Member.(string),
			FuelPoints:  z.Score,
			CurrentRank: offset + i + 1,
		})
	}

	return board, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userID string, period entity.PeriodType,
) (uint64, error) {
	key := redisKeyFuelLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

// ChangeFuelLeaderboard bumps the week and month boards of the day the
// points were earned. Boards nobody asked for yet are left cold.
func (l *leaderboard) ChangeFuelLeaderboard(
	ctx context.Context,
	value int64,
	earnedAt time.Time,
	userID string,
) error {
	for _, period := range []entity.PeriodType{
		entity.NewPeriodWeek(earnedAt),
		entity.NewPeriodMonth(earnedAt),
	} {
		key := redisKeyFuelLeaderBoard(period)

		ok, err := l.redisClient.Exist(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
			return errorx.Unknown
		}

		if !ok {
			continue
		}

		if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
		}
	}

	return nil
}

func (l *leaderboard) loadLeaderboardFromDB(ctx context.Context, period entity.PeriodType) error {
	totals, err := l.fuelRepo.TotalsBetween(ctx, period.Start(), period.End())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load fuel totals from database: %v", err)
		return errorx.Unknown
	}

	key := redisKeyFuelLeaderBoard(period)
	for _, total := range totals {
		if total.Total == 0 {
			continue
		}

		err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: total.UserID, Score: float64(total.Total)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
