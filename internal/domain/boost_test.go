package domain

import (
	"testing"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/domain/statistic"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/testutil"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestBoostDomain() *boostDomain {
	return NewBoostDomain(
		repository.NewBoostRepository(),
		repository.NewActivityRepository(),
		repository.NewUserRepository(),
		repository.NewFuelRepository(),
		statistic.New(repository.NewFuelRepository(), &testutil.MockRedisClient{}),
	)
}

func Test_boostDomain_CompleteBoost(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))

	user := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	boost := testutil.SampleBoost(ctx, nil)
	domain := newTestBoostDomain()

	resp, err := domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: boost.ID})
	require.NoError(t, err)
	require.Equal(t, boost.FuelPoints, resp.FuelPoints)
	require.Equal(t, 1, resp.BurnStreak)

	logs, err := repository.NewFuelRepository().ListByUser(ctx, user.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, boost.FuelPoints, logs[0].Points)
	require.Equal(t, entity.FuelFromBoost, logs[0].Source)
}

func Test_boostDomain_CompleteBoost_OncePerDay(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, clock := testutil.WithTime(ctx, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))

	user := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	boost := testutil.SampleBoost(ctx, nil)
	domain := newTestBoostDomain()

	_, err := domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: boost.ID})
	require.NoError(t, err)

	_, err = domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: boost.ID})
	requireErrorxCode(t, err, errorx.Conflict)

	// The day rolls over and the boost opens up again.
	clock.Current = clock.Current.AddDate(0, 0, 1)
	resp, err := domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: boost.ID})
	require.NoError(t, err)
	require.Equal(t, 2, resp.BurnStreak)
}

func Test_boostDomain_CompleteBoost_StreakResetsAfterGap(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, clock := testutil.WithTime(ctx, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))

	user := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	boost := testutil.SampleBoost(ctx, nil)
	domain := newTestBoostDomain()

	resp, err := domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: boost.ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.BurnStreak)

	clock.Current = clock.Current.AddDate(0, 0, 3)
	resp, err = domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: boost.ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.BurnStreak)
}

func Test_boostDomain_CompleteBoost_FeedsRunningQuests(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))

	user := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	quest := testutil.SampleQuest(ctx, nil) // sleep
	boost := testutil.SampleBoost(ctx, nil) // sleep
	other := testutil.SampleBoost(ctx, &entity.Boost{Category: "fitness"})

	activityDomain, _ := newTestActivityDomain(ctx, &testutil.MockPaymentCaller{})
	_, err := activityDomain.Start(ctx, &model.StartActivityRequest{ActivityID: quest.ID})
	require.NoError(t, err)

	domain := newTestBoostDomain()

	_, err = domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: boost.ID})
	require.NoError(t, err)

	// A boost of another category leaves the quest alone.
	_, err = domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: other.ID})
	require.NoError(t, err)

	instance, err := repository.NewActivityRepository().GetInstance(ctx, user.ID, quest.ID)
	require.NoError(t, err)
	require.Equal(t, 1, instance.BoostCount)
}

func Test_boostDomain_CompleteBoost_NotFound(t *testing.T) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.SampleUser(ctx, nil).ID)

	domain := newTestBoostDomain()

	_, err := domain.CompleteBoost(ctx, &model.CompleteBoostRequest{BoostID: "missing"})
	requireErrorxCode(t, err, errorx.NotFound)
}

func Test_boostDomain_GetBoosts(t *testing.T) {
	ctx := testutil.MockContext()

	first := testutil.SampleBoost(ctx, nil)
	second := testutil.SampleBoost(ctx, nil)

	domain := newTestBoostDomain()

	resp, err := domain.GetBoosts(ctx, &model.GetBoostsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Boosts, 2)

	ids := map[string]bool{}
	for _, b := range resp.Boosts {
		ids[b.ID] = true
	}
	require.True(t, ids[first.ID])
	require.True(t, ids[second.ID])
}
