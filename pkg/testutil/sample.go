package testutil

import (
	"context"
	"database/sql"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
)

func sqlTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

// SampleUser creates a commander on a core plan with randomized identity.
// Non-zero fields of init overwrite the sample.
func SampleUser(ctx context.Context, init *entity.User) entity.User {
	sample := &entity.User{
		Base:            entity.Base{ID: uuid.NewString()},
		Name:            uuid.NewString(),
		Status:          entity.Commander,
		StatusChangedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		PlanTier:        entity.PlanCore,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SampleChallenge(ctx context.Context, init *entity.ActivityDefinition) entity.ActivityDefinition {
	sample := &entity.ActivityDefinition{
		Base:                  entity.Base{ID: uuid.NewString()},
		Name:                  uuid.NewString(),
		Kind:                  entity.KindChallenge,
		Tier:                  1,
		Category:              "sleep",
		DurationDays:          30,
		FuelPointReward:       50,
		VerificationsRequired: 8,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewActivityRepository().CreateDefinition(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SampleQuest(ctx context.Context, init *entity.ActivityDefinition) entity.ActivityDefinition {
	sample := &entity.ActivityDefinition{
		Base:                  entity.Base{ID: uuid.NewString()},
		Name:                  uuid.NewString(),
		Kind:                  entity.KindQuest,
		Tier:                  1,
		Category:              "sleep",
		DurationDays:          90,
		FuelPointReward:       150,
		VerificationsRequired: 2,
		BoostsRequired:        5,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewActivityRepository().CreateDefinition(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SampleContest(ctx context.Context, init *entity.ActivityDefinition) entity.ActivityDefinition {
	sample := &entity.ActivityDefinition{
		Base:                  entity.Base{ID: uuid.NewString()},
		Name:                  uuid.NewString(),
		Kind:                  entity.KindContest,
		Category:              "fitness",
		DurationDays:          14,
		FuelPointReward:       200,
		VerificationsRequired: 4,
		EntryFeeCents:         2500,
		MinPlayers:            4,
		StartTime:             sqlTime(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewActivityRepository().CreateDefinition(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SampleBoost(ctx context.Context, init *entity.Boost) entity.Boost {
	sample := &entity.Boost{
		Base:       entity.Base{ID: uuid.NewString()},
		Name:       uuid.NewString(),
		Category:   "sleep",
		FuelPoints: 5,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewBoostRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SamplePrize(ctx context.Context, init *entity.Prize) entity.Prize {
	sample := &entity.Prize{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     uuid.NewString(),
		Pool:     entity.HeroPool,
		Period:   "June:2024",
		Quantity: 1,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewPrizeRepository().CreatePrize(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.Comparable() {
			continue
		}

		if overwriteField.Interface() != reflect.Zero(overwriteField.Type()).Interface() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
