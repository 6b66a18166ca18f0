package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/statistic"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BoostDomain interface {
	GetBoosts(context.Context, *model.GetBoostsRequest) (*model.GetBoostsResponse, error)
	CompleteBoost(context.Context, *model.CompleteBoostRequest) (*model.CompleteBoostResponse, error)
}

type boostDomain struct {
	boostRepo    repository.BoostRepository
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	fuelRepo     repository.FuelRepository
	leaderboard  statistic.Leaderboard
}

func NewBoostDomain(
	boostRepo repository.BoostRepository,
	activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository,
	fuelRepo repository.FuelRepository,
	leaderboard statistic.Leaderboard,
) *boostDomain {
	return &boostDomain{
		boostRepo:    boostRepo,
		activityRepo: activityRepo,
		userRepo:     userRepo,
		fuelRepo:     fuelRepo,
		leaderboard:  leaderboard,
	}
}

func (d *boostDomain) GetBoosts(
	ctx context.Context, req *model.GetBoostsRequest,
) (*model.GetBoostsResponse, error) {
	boosts, err := d.boostRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get boosts: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Boost{}
	for i := range boosts {
		result = append(result, model.ConvertBoost(&boosts[i]))
	}

	return &model.GetBoostsResponse{Boosts: result}, nil
}

// CompleteBoost awards the boost once per day, feeds running quests of the
// boost's category and keeps the burn streak alive.
func (d *boostDomain) CompleteBoost(
	ctx context.Context, req *model.CompleteBoostRequest,
) (*model.CompleteBoostResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	boost, err := d.boostRepo.GetByID(ctx, req.BoostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found boost")
		}

		xcontext.Logger(ctx).Errorf("Cannot get boost: %v", err)
		return nil, errorx.Unknown
	}

	now := xcontext.Now(ctx)
	today := now.Format(model.DefaultDateLayout)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	completed, err := d.boostRepo.CountCompletionsOn(ctx, userID, boost.ID, today)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count boost completions: %v", err)
		return nil, errorx.Unknown
	}

	if completed > 0 {
		return nil, errorx.New(errorx.Conflict, "Boost already completed today")
	}

	// The unique day index backstops the check against racing requests.
	err = d.boostRepo.CreateCompletion(ctx, &entity.BoostCompletion{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		BoostID:     boost.ID,
		CompletedOn: today,
		CompletedAt: now,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create boost completion: %v", err)
		return nil, errorx.Unknown
	}

	err = d.fuelRepo.Create(ctx, &entity.FuelLog{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Points:   boost.FuelPoints,
		Source:   entity.FuelFromBoost,
		EarnedAt: now,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create fuel log: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	streak := nextBurnStreak(user, now)
	if err := d.userRepo.UpdateBurnStreak(ctx, userID, streak, now); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update burn streak: %v", err)
		return nil, errorx.Unknown
	}

	quests, err := d.activityRepo.ListActiveByKindCategory(ctx, userID, entity.KindQuest, boost.Category)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list running quests: %v", err)
		return nil, errorx.Unknown
	}

	for _, quest := range quests {
		err := d.activityRepo.IncreaseBoost(ctx, quest.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot feed quest %s: %v", quest.ID, err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.leaderboard.ChangeFuelLeaderboard(ctx, int64(boost.FuelPoints), now, userID); err != nil {
		return nil, err
	}

	return &model.CompleteBoostResponse{
		FuelPoints: boost.FuelPoints,
		BurnStreak: streak,
	}, nil
}
