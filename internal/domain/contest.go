package domain

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rocketman2178/healthrocket-backend/internal/catalog"
	"github.com/rocketman2178/healthrocket-backend/internal/client"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/progress"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

type ContestDomain interface {
	Settle(context.Context, *model.SettleContestRequest) (*model.SettleContestResponse, error)
	GetPayouts(context.Context, *model.SettleContestRequest) (*model.SettleContestResponse, error)
}

type contestDomain struct {
	activityRepo  repository.ActivityRepository
	userRepo      repository.UserRepository
	prizeRepo     repository.PrizeRepository
	activities    *catalog.Catalog
	paymentCaller client.PaymentCaller
}

func NewContestDomain(
	activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository,
	prizeRepo repository.PrizeRepository,
	activities *catalog.Catalog,
	paymentCaller client.PaymentCaller,
) *contestDomain {
	return &contestDomain{
		activityRepo:  activityRepo,
		userRepo:      userRepo,
		prizeRepo:     prizeRepo,
		activities:    activities,
		paymentCaller: paymentCaller,
	}
}

// Settle distributes a finished contest's fee pool. Finishers rank by
// earlier completion; pools of at least four pay the top tenth 75 percent
// and the rest of the top half 25 percent, smaller pools pay the winner
// everything. A contest that never reached its minimum field refunds every
// entry instead.
func (d *contestDomain) Settle(
	ctx context.Context, req *model.SettleContestRequest,
) (*model.SettleContestResponse, error) {
	def, ok := d.activities.Get(req.ActivityID)
	if !ok || def.Kind != entity.KindContest {
		return nil, errorx.New(errorx.NotFound, "Not found contest")
	}

	now := xcontext.Now(ctx)
	if !progress.Expired(now, def.StartTime.Time, def.DurationDays) {
		return nil, errorx.New(errorx.Conflict, "Contest is still running")
	}

	existing, err := d.prizeRepo.ListPayoutsByActivityID(ctx, def.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list payouts: %v", err)
		return nil, errorx.Unknown
	}

	if len(existing) > 0 {
		return &model.SettleContestResponse{Payouts: convertPayouts(existing)}, nil
	}

	entrants, err := d.activityRepo.ListEntrants(ctx, def.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list entrants: %v", err)
		return nil, errorx.Unknown
	}

	completions, err := d.activityRepo.ListCompletionsByActivityID(ctx, def.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list completions: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	var payouts []entity.ContestPayout
	if len(entrants) < def.MinPlayers || len(completions) == 0 {
		payouts, err = d.refundAll(ctx, def, entrants)
	} else {
		payouts = buildPayouts(def, entrants, completions, now)
		for i := range payouts {
			if err = d.prizeRepo.CreatePayout(ctx, &payouts[i]); err != nil {
				break
			}
		}
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot settle contest: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.SettleContestResponse{Payouts: convertPayouts(payouts)}, nil
}

func (d *contestDomain) refundAll(
	ctx context.Context, def *entity.ActivityDefinition, entrants []entity.ActivityInstance,
) ([]entity.ContestPayout, error) {
	now := xcontext.Now(ctx)

	payouts := []entity.ContestPayout{}
	for i := range entrants {
		entrant := &entrants[i]

		if def.EntryFeeCents > 0 {
			if entrant.PaymentRef.Valid {
				callCtx, cancel := context.WithTimeout(ctx, xcontext.Configs(ctx).Payment.Timeout)
				err := d.paymentCaller.Refund(callCtx, entrant.UserID, def.EntryFeeCents)
				cancel()
				if err != nil {
					return nil, err
				}
			} else if err := d.userRepo.RefundContestCredit(ctx, entrant.UserID); err != nil {
				return nil, err
			}
		}

		payout := entity.ContestPayout{
			Base:        entity.Base{ID: uuid.NewString()},
			ActivityID:  def.ID,
			UserID:      entrant.UserID,
			Rank:        0,
			AmountCents: def.EntryFeeCents,
			Refund:      true,
			SettledAt:   now,
		}
		if err := d.prizeRepo.CreatePayout(ctx, &payout); err != nil {
			return nil, err
		}

		payouts = append(payouts, payout)
	}

	return payouts, nil
}

func buildPayouts(
	def *entity.ActivityDefinition,
	entrants []entity.ActivityInstance,
	completions []entity.CompletedActivity,
	now time.Time,
) []entity.ContestPayout {
	sort.SliceStable(completions, func(i, j int) bool {
		if !completions[i].CompletedAt.Equal(completions[j].CompletedAt) {
			return completions[i].CompletedAt.Before(completions[j].CompletedAt)
		}

		return completions[i].UserID < completions[j].UserID
	})

	pool := def.EntryFeeCents * int64(len(entrants))
	n := len(completions)

	shares := make([]int64, n)
	if n < 4 {
		shares[0] = pool
	} else {
		eliteCount := int(math.Ceil(0.1 * float64(n)))
		halfCount := int(math.Ceil(0.5 * float64(n)))

		elitePool := pool * 75 / 100
		restPool := pool - elitePool

		for i := 0; i < eliteCount; i++ {
			shares[i] = elitePool / int64(eliteCount)
		}
		for i := eliteCount; i < halfCount; i++ {
			shares[i] = restPool / int64(halfCount-eliteCount)
		}

		distributed := int64(0)
		for _, s := range shares {
			distributed += s
		}

		// Flooring leftovers go to the winner.
		shares[0] += pool - distributed
	}

	payouts := []entity.ContestPayout{}
	for i := 0; i < n; i++ {
		if shares[i] == 0 {
			continue
		}

		payouts = append(payouts, entity.ContestPayout{
			Base:        entity.Base{ID: uuid.NewString()},
			ActivityID:  def.ID,
			UserID:      completions[i].UserID,
			Rank:        i + 1,
			AmountCents: shares[i],
			SettledAt:   now,
		})
	}

	return payouts
}

func (d *contestDomain) GetPayouts(
	ctx context.Context, req *model.SettleContestRequest,
) (*model.SettleContestResponse, error) {
	payouts, err := d.prizeRepo.ListPayoutsByActivityID(ctx, req.ActivityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list payouts: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SettleContestResponse{Payouts: convertPayouts(payouts)}, nil
}

func convertPayouts(payouts []entity.ContestPayout) []model.ContestPayout {
	result := []model.ContestPayout{}
	for _, p := range payouts {
		result = append(result, model.ContestPayout{
			UserID:      p.UserID,
			Rank:        p.Rank,
			AmountCents: p.AmountCents,
			Refund:      p.Refund,
		})
	}

	return result
}
