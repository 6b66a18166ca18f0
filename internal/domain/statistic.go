package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
	"github.com/rocketman2178/healthrocket-backend/internal/client"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/statistic"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderBoard(context.Context, *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)

	// RefreshStatuses retiers the whole population from the given period's
	// average fuel points. Run by cron at period close.
	RefreshStatuses(ctx context.Context, period entity.PeriodType) error
}

type statisticDomain struct {
	userRepo    repository.UserRepository
	fuelRepo    repository.FuelRepository
	leaderboard statistic.Leaderboard
	notifier    client.Notifier

	// thresholds publishes the latest cut lines per period key, readable
	// without touching the database.
	thresholds *xsync.MapOf[string, statistic.Thresholds]
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	fuelRepo repository.FuelRepository,
	leaderboard statistic.Leaderboard,
	notifier client.Notifier,
) *statisticDomain {
	return &statisticDomain{
		userRepo:    userRepo,
		fuelRepo:    fuelRepo,
		leaderboard: leaderboard,
		notifier:    notifier,
		thresholds:  xsync.NewMapOf[statistic.Thresholds](),
	}
}

func (d *statisticDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	if req.Limit == 0 {
		req.Limit = 10
	}

	if req.Limit < 0 || req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range [1, 50]")
	}

	period, err := statistic.ToPeriodWithTime(req.Period, xcontext.Now(ctx))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period")
	}

	board, err := d.leaderboard.GetLeaderBoard(ctx, period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(board))
	for _, row := range board {
		ids = append(ids, row.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	names := map[string]string{}
	for _, u := range users {
		names[u.ID] = u.Name
	}

	lastPeriod, err := statistic.ToLastPeriod(req.Period, xcontext.Now(ctx))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period")
	}

	for i := range board {
		board[i].Name = names[board[i].UserID]

		rank, err := d.leaderboard.GetRank(ctx, board[i].UserID, lastPeriod)
		if err != nil {
			return nil, err
		}

		board[i].PreviousRank = int(rank)
	}

	return &model.GetLeaderBoardResponse{LeaderBoard: board}, nil
}

func (d *statisticDomain) RefreshStatuses(ctx context.Context, period entity.PeriodType) error {
	totals, err := d.fuelRepo.TotalsBetween(ctx, period.Start(), period.End())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load fuel totals: %v", err)
		return err
	}

	days := entity.Days(period)
	averages := make([]float64, 0, len(totals))
	averageOf := make(map[string]float64, len(totals))
	for _, total := range totals {
		avg := float64(total.Total) / float64(days)
		averages = append(averages, avg)
		averageOf[total.UserID] = avg
	}

	thresholds := statistic.ComputeThresholds(averages)
	d.thresholds.Store(period.Period(), thresholds)

	users, err := d.userRepo.ListAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list users: %v", err)
		return err
	}

	for i := range users {
		user := &users[i]
		next := statistic.TierFor(averageOf[user.ID], thresholds)
		if next == user.Status {
			continue
		}

		if err := d.changeStatus(ctx, user, next); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot change status of %s: %v", user.ID, err)
		}
	}

	return nil
}

// LastThresholds returns the most recently computed cut lines of a period,
// if any refresh has run for it.
func (d *statisticDomain) LastThresholds(period entity.PeriodType) (statistic.Thresholds, bool) {
	return d.thresholds.Load(period.Period())
}

func (d *statisticDomain) changeStatus(
	ctx context.Context, user *entity.User, next entity.UserStatus,
) error {
	now := xcontext.Now(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The guard loses quietly if another refresh got there first.
	if err := d.userRepo.UpdateStatus(ctx, user.ID, user.Status, next, now); err != nil {
		return err
	}

	if err := d.userRepo.CloseStatusHistory(ctx, user.ID, now); err != nil {
		return err
	}

	err := d.userRepo.OpenStatusHistory(ctx, &entity.StatusHistory{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    user.ID,
		Status:    next,
		StartedAt: now,
	})
	if err != nil {
		return err
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifier.Notify(ctx, client.StatusChangedEvent{
		UserID:    user.ID,
		OldStatus: string(user.Status),
		NewStatus: string(next),
	})

	return nil
}
