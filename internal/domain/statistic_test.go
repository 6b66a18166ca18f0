package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rocketman2178/healthrocket-backend/internal/client"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/statistic"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/testutil"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func addFuel(ctx context.Context, userID string, points int, earnedAt time.Time) {
	err := repository.NewFuelRepository().Create(ctx, &entity.FuelLog{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Points:   points,
		Source:   entity.FuelFromBoost,
		EarnedAt: earnedAt,
	})
	if err != nil {
		panic(err)
	}
}

func Test_statisticDomain_RefreshStatuses(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.July, 1, 0, 5, 0, 0, time.UTC))

	// Ten players whose June daily averages come out to
	// 120, 85, 65, 45, 30, 25, 20, 15, 10, 5. With the hero line at the
	// 50th percentile and the legend line at the 90th, the cuts land on 30
	// and 120.
	averages := []int{120, 85, 65, 45, 30, 25, 20, 15, 10, 5}
	users := make([]entity.User, len(averages))
	for i, avg := range averages {
		users[i] = testutil.SampleUser(ctx, nil)
		addFuel(ctx, users[i].ID, avg*30, time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC))
	}

	notifier := &testutil.MockNotifier{}
	domain := NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewFuelRepository(),
		statistic.New(repository.NewFuelRepository(), &testutil.MockRedisClient{}),
		notifier,
	)

	period := entity.NewPeriodMonth(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, domain.RefreshStatuses(ctx, period))

	thresholds, ok := domain.LastThresholds(period)
	require.True(t, ok)
	require.Equal(t, float64(30), thresholds.Hero)
	require.Equal(t, float64(120), thresholds.Legend)

	userRepo := repository.NewUserRepository()
	wantStatus := []entity.UserStatus{
		entity.Legend,
		entity.Hero, entity.Hero, entity.Hero, entity.Hero,
		entity.Commander, entity.Commander, entity.Commander, entity.Commander, entity.Commander,
	}
	for i, want := range wantStatus {
		got, err := userRepo.GetByID(ctx, users[i].ID)
		require.NoError(t, err)
		require.Equal(t, want, got.Status, "player with average %d", averages[i])
	}

	// Everyone who moved got an open history row and a notification.
	history, err := userRepo.ListStatusHistory(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, entity.Legend, history[0].Status)
	require.False(t, history[0].EndedAt.Valid)

	require.Len(t, notifier.Events, 5)
	event, ok := notifier.Events[0].(client.StatusChangedEvent)
	require.True(t, ok)
	require.Equal(t, string(entity.Commander), event.OldStatus)
}

func Test_statisticDomain_RefreshStatuses_Demotion(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.July, 1, 0, 5, 0, 0, time.UTC))

	// A legend who earned nothing in June drops back to commander.
	legend := testutil.SampleUser(ctx, &entity.User{Status: entity.Legend})

	notifier := &testutil.MockNotifier{}
	domain := NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewFuelRepository(),
		statistic.New(repository.NewFuelRepository(), &testutil.MockRedisClient{}),
		notifier,
	)

	period := entity.NewPeriodMonth(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, domain.RefreshStatuses(ctx, period))

	got, err := repository.NewUserRepository().GetByID(ctx, legend.ID)
	require.NoError(t, err)
	require.Equal(t, entity.Commander, got.Status)
	require.True(t, got.StatusChangedAt.Equal(xcontext.Now(ctx)))
}

func Test_statisticDomain_RefreshStatuses_NoMoveNoHistory(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.July, 1, 0, 5, 0, 0, time.UTC))

	user := testutil.SampleUser(ctx, nil)

	notifier := &testutil.MockNotifier{}
	domain := NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewFuelRepository(),
		statistic.New(repository.NewFuelRepository(), &testutil.MockRedisClient{}),
		notifier,
	)

	period := entity.NewPeriodMonth(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, domain.RefreshStatuses(ctx, period))

	history, err := repository.NewUserRepository().ListStatusHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, history)
	require.Empty(t, notifier.Events)
}

func Test_statisticDomain_GetLeaderBoard(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC))

	first := testutil.SampleUser(ctx, nil)
	second := testutil.SampleUser(ctx, nil)

	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return true, nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return []redis.Z{
				{Member: first.ID, Score: 340},
				{Member: second.ID, Score: 120},
			}, nil
		},
		// Last month the two had swapped places.
		ZRevRankFunc: func(ctx context.Context, key string, member string) (uint64, error) {
			require.Equal(t, "fuel:May:2024", key)
			if member == second.ID {
				return 0, nil
			}

			return 1, nil
		},
	}

	domain := NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewFuelRepository(),
		statistic.New(repository.NewFuelRepository(), redisClient),
		&testutil.MockNotifier{},
	)

	resp, err := domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "month"})
	require.NoError(t, err)
	require.Equal(t, []model.UserStatistic{
		{UserID: first.ID, Name: first.Name, FuelPoints: 340, CurrentRank: 1, PreviousRank: 2},
		{UserID: second.ID, Name: second.Name, FuelPoints: 120, CurrentRank: 2, PreviousRank: 1},
	}, resp.LeaderBoard)
}

func Test_statisticDomain_GetLeaderBoard_ColdKeyLoadsFromDB(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC))

	user := testutil.SampleUser(ctx, nil)
	addFuel(ctx, user.ID, 75, time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC))

	var loaded []redis.Z
	redisClient := &testutil.MockRedisClient{
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			loaded = append(loaded, z)
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return loaded, nil
		},
	}

	domain := NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewFuelRepository(),
		statistic.New(repository.NewFuelRepository(), redisClient),
		&testutil.MockNotifier{},
	)

	resp, err := domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "month"})
	require.NoError(t, err)
	require.Len(t, resp.LeaderBoard, 1)
	require.Equal(t, user.ID, resp.LeaderBoard[0].UserID)
	require.Equal(t, float64(75), resp.LeaderBoard[0].FuelPoints)

	// A first-time earner has no standing on last month's board.
	require.Equal(t, 0, resp.LeaderBoard[0].PreviousRank)
}

func Test_statisticDomain_GetLeaderBoard_LimitValidation(t *testing.T) {
	ctx := testutil.MockContext()

	domain := NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewFuelRepository(),
		statistic.New(repository.NewFuelRepository(), &testutil.MockRedisClient{}),
		&testutil.MockNotifier{},
	)

	_, err := domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "month", Limit: 51})
	require.Error(t, err)

	_, err = domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "quarter"})
	require.Error(t, err)
}
