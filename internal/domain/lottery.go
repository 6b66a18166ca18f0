package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rocketman2178/healthrocket-backend/internal/client"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/crypto"
	"github.com/rocketman2178/healthrocket-backend/pkg/dateutil"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type LotteryDomain interface {
	DrawPrizes(context.Context, *model.DrawPrizesRequest) (*model.DrawPrizesResponse, error)
	GetDistributions(context.Context, *model.GetDistributionsRequest) (*model.GetDistributionsResponse, error)
}

type lotteryDomain struct {
	userRepo  repository.UserRepository
	fuelRepo  repository.FuelRepository
	prizeRepo repository.PrizeRepository
	notifier  client.Notifier
}

func NewLotteryDomain(
	userRepo repository.UserRepository,
	fuelRepo repository.FuelRepository,
	prizeRepo repository.PrizeRepository,
	notifier client.Notifier,
) *lotteryDomain {
	return &lotteryDomain{
		userRepo:  userRepo,
		fuelRepo:  fuelRepo,
		prizeRepo: prizeRepo,
		notifier:  notifier,
	}
}

// poolEntry is one player's stake in a pool draw. A legend's two tickets are
// folded into the weight, which changes nothing for a single draw.
type poolEntry struct {
	userID string
	weight int
}

func (d *lotteryDomain) DrawPrizes(
	ctx context.Context, req *model.DrawPrizesRequest,
) (*model.DrawPrizesResponse, error) {
	period, err := drawPeriod(req.Period, xcontext.Now(ctx))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period, expected e.g. March:2024")
	}

	// Pools are independent; claimed counters are guarded per prize, so
	// running them concurrently is safe.
	eg, egCtx := errgroup.WithContext(ctx)
	for _, pool := range []entity.PrizePool{entity.HeroPool, entity.LegendPool} {
		pool := pool
		eg.Go(func() error {
			return d.drawPool(egCtx, pool, period)
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	distributions, err := d.prizeRepo.ListDistributionsByPeriod(ctx, period.Period())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list distributions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.PrizeDistribution{}
	for i := range distributions {
		result = append(result, model.ConvertPrizeDistribution(&distributions[i]))
	}

	return &model.DrawPrizesResponse{Distributions: result}, nil
}

// drawPeriod resolves the requested month, defaulting to the month that
// just closed.
func drawPeriod(period string, now time.Time) (entity.PeriodType, error) {
	if period == "" {
		return entity.NewPeriodMonth(dateutil.LastMonth(now)), nil
	}

	t, err := time.Parse("January:2006", period)
	if err != nil {
		return nil, err
	}

	return entity.NewPeriodMonth(t), nil
}

func (d *lotteryDomain) drawPool(
	ctx context.Context, pool entity.PrizePool, period entity.PeriodType,
) error {
	// A pool that already has distributions for the period was drawn; the
	// whole run is re-entrant.
	drawn, err := d.prizeRepo.CountDistributionsByPeriod(ctx, pool, period.Period())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count distributions: %v", err)
		return errorx.Unknown
	}

	if drawn > 0 {
		xcontext.Logger(ctx).Infof("Pool %s of %s was already drawn", pool, period.Period())
		return nil
	}

	prizes, err := d.prizeRepo.ListByPoolPeriod(ctx, pool, period.Period())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list prizes: %v", err)
		return errorx.Unknown
	}

	if len(prizes) == 0 {
		return nil
	}

	entries, err := d.poolEntries(ctx, pool, period)
	if err != nil {
		return err
	}

	for i := range prizes {
		prize := &prizes[i]
		for unit := prize.Claimed; unit < prize.Quantity; unit++ {
			// Fewer players than prize units is fine; the leftovers just
			// stay unclaimed.
			if len(entries) == 0 {
				return nil
			}

			winner := drawWinner(entries)
			if err := d.awardPrize(ctx, prize, winner, pool, period); err != nil {
				xcontext.Logger(ctx).Warnf(
					"Skipping failed draw of prize %s for %s: %v", prize.ID, winner, err)
			}

			// Win or fail, the player leaves the pool for this run.
			entries = removeEntries(entries, winner)
		}
	}

	return nil
}

// poolEntries builds the weighted ticket list of everyone holding the
// pool's status on a prize-eligible plan. The weight rewards days active in
// the period and tenure at the status, both capped.
func (d *lotteryDomain) poolEntries(
	ctx context.Context, pool entity.PrizePool, period entity.PeriodType,
) ([]poolEntry, error) {
	status := entity.Hero
	if pool == entity.LegendPool {
		status = entity.Legend
	}

	users, err := d.userRepo.ListByStatus(ctx, status)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list users by status: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).PrizeDraw
	tickets := cfg.EntriesPerHero
	if pool == entity.LegendPool {
		tickets = cfg.EntriesPerLegend
	}

	periodDays := entity.Days(period)
	now := xcontext.Now(ctx)

	entries := []poolEntry{}
	for i := range users {
		user := &users[i]
		if !user.PlanTier.PrizeEligible() {
			continue
		}

		activeDays, err := d.fuelRepo.ActiveDays(ctx, user.ID, period.Start(), period.End())
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count active days: %v", err)
			return nil, errorx.Unknown
		}

		tenure := 0.1 * float64(dateutil.MonthsBetween(user.StatusChangedAt, now))
		if tenure > 0.5 {
			tenure = 0.5
		}

		multiplier := 1 + 0.5*float64(activeDays)/float64(periodDays) + tenure
		entries = append(entries, poolEntry{
			userID: user.ID,
			weight: tickets * int(float64(cfg.BaseWeight)*multiplier),
		})
	}

	return entries, nil
}

func drawWinner(entries []poolEntry) string {
	total := 0
	for _, e := range entries {
		total += e.weight
	}

	pick := crypto.RandIntn(total)
	for _, e := range entries {
		pick -= e.weight
		if pick < 0 {
			return e.userID
		}
	}

	return entries[len(entries)-1].userID
}

func removeEntries(entries []poolEntry, userID string) []poolEntry {
	remaining := entries[:0]
	for _, e := range entries {
		if e.userID != userID {
			remaining = append(remaining, e)
		}
	}

	return remaining
}

func (d *lotteryDomain) awardPrize(
	ctx context.Context,
	prize *entity.Prize,
	userID string,
	pool entity.PrizePool,
	period entity.PeriodType,
) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.prizeRepo.CheckAndClaimPrize(ctx, prize.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("prize is out of stock")
		}

		return err
	}

	err := d.prizeRepo.CreateDistribution(ctx, &entity.PrizeDistribution{
		Base:      entity.Base{ID: uuid.NewString()},
		PrizeID:   prize.ID,
		UserID:    userID,
		Pool:      pool,
		Period:    period.Period(),
		AwardedAt: xcontext.Now(ctx),
	})
	if err != nil {
		return err
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifier.Notify(ctx, client.PrizeAwardedEvent{
		UserID:    userID,
		PrizeID:   prize.ID,
		PrizeName: prize.Name,
		Period:    period.Period(),
	})

	return nil
}

func (d *lotteryDomain) GetDistributions(
	ctx context.Context, req *model.GetDistributionsRequest,
) (*model.GetDistributionsResponse, error) {
	period, err := drawPeriod(req.Period, xcontext.Now(ctx))
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid period, expected e.g. March:2024")
	}

	distributions, err := d.prizeRepo.ListDistributionsByPeriod(ctx, period.Period())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list distributions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.PrizeDistribution{}
	for i := range distributions {
		result = append(result, model.ConvertPrizeDistribution(&distributions[i]))
	}

	return &model.GetDistributionsResponse{Distributions: result}, nil
}
