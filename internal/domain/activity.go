package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rocketman2178/healthrocket-backend/internal/catalog"
	"github.com/rocketman2178/healthrocket-backend/internal/client"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/progress"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/statistic"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ActivityDomain interface {
	GetCatalog(context.Context, *model.GetCatalogRequest) (*model.GetCatalogResponse, error)
	GetMyActivities(context.Context, *model.GetMyActivitiesRequest) (*model.GetMyActivitiesResponse, error)
	Start(context.Context, *model.StartActivityRequest) (*model.StartActivityResponse, error)
	Cancel(context.Context, *model.CancelActivityRequest) (*model.CancelActivityResponse, error)
	Complete(context.Context, *model.CompleteActivityRequest) (*model.CompleteActivityResponse, error)
	SubmitVerification(context.Context, *model.SubmitVerificationRequest) (*model.SubmitVerificationResponse, error)

	// ExpireOverdue sweeps every live instance; the per-user reconcile
	// covers reads in between runs.
	ExpireOverdue(ctx context.Context) error
}

type activityDomain struct {
	activityRepo  repository.ActivityRepository
	userRepo      repository.UserRepository
	fuelRepo      repository.FuelRepository
	activities    *catalog.Catalog
	paymentCaller client.PaymentCaller
	notifier      client.Notifier
	leaderboard   statistic.Leaderboard
}

func NewActivityDomain(
	activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository,
	fuelRepo repository.FuelRepository,
	activities *catalog.Catalog,
	paymentCaller client.PaymentCaller,
	notifier client.Notifier,
	leaderboard statistic.Leaderboard,
) *activityDomain {
	return &activityDomain{
		activityRepo:  activityRepo,
		userRepo:      userRepo,
		fuelRepo:      fuelRepo,
		activities:    activities,
		paymentCaller: paymentCaller,
		notifier:      notifier,
		leaderboard:   leaderboard,
	}
}

func (d *activityDomain) GetCatalog(
	ctx context.Context, req *model.GetCatalogRequest,
) (*model.GetCatalogResponse, error) {
	defs := d.activities.All()
	if req.Kind != "" {
		kind, err := enumActivityKind(req.Kind)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid kind %s", req.Kind)
		}

		defs = d.activities.ByKind(kind)
	}

	activities := []model.Activity{}
	for _, def := range defs {
		if req.Category != "" && def.Category != req.Category {
			continue
		}

		activities = append(activities, model.ConvertActivity(def))
	}

	return &model.GetCatalogResponse{Activities: activities}, nil
}

func (d *activityDomain) GetMyActivities(
	ctx context.Context, req *model.GetMyActivitiesRequest,
) (*model.GetMyActivitiesResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.reconcile(ctx, userID); err != nil {
		return nil, err
	}

	instances, err := d.activityRepo.ListInstances(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list instances: %v", err)
		return nil, errorx.Unknown
	}

	now := xcontext.Now(ctx)
	result := []model.ActivityInstance{}
	for i := range instances {
		result = append(result, d.projectInstance(now, &instances[i]))
	}

	return &model.GetMyActivitiesResponse{Instances: result}, nil
}

func (d *activityDomain) projectInstance(
	now time.Time, instance *entity.ActivityInstance,
) model.ActivityInstance {
	projected := model.ConvertActivityInstance(instance)

	switch instance.Status {
	case entity.ActivityRegistered:
		projected.DaysUntilStart = progress.DaysUntilStart(now, instance.StartedAt)
	case entity.ActivityActive:
		def, ok := d.activities.Get(instance.ActivityID)
		if ok {
			projected.DaysRemaining = progress.DaysRemaining(now, instance.StartedAt, def.DurationDays)
		}
	}

	if instance.Kind == entity.KindQuest {
		projected.ProgressPercent = progress.QuestPercent(
			instance.VerificationCount, instance.VerificationsRequired,
			instance.BoostCount, instance.BoostsRequired,
		)
	} else {
		projected.ProgressPercent = progress.CountPercent(
			instance.VerificationCount, instance.VerificationsRequired)
	}

	return projected
}

func (d *activityDomain) Start(
	ctx context.Context, req *model.StartActivityRequest,
) (*model.StartActivityResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	def, ok := d.activities.Get(req.ActivityID)
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Not found activity")
	}

	if err := d.reconcile(ctx, userID); err != nil {
		return nil, err
	}

	now := xcontext.Now(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Locking the instance row alone cannot serialize two first-time starts
	// because there is no row to lock yet. The user row is the anchor: the
	// race loser blocks here and then observes the winner's instance.
	if _, err := d.userRepo.GetByIDForUpdate(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot lock user: %v", err)
		return nil, errorx.Unknown
	}

	existing, err := d.activityRepo.GetInstanceForUpdate(ctx, userID, req.ActivityID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get instance: %v", err)
		return nil, errorx.Unknown
	}

	if err == nil {
		// A payment callback replaying the same handle gets the instance
		// it already paid for.
		if req.PaymentHandle != "" && existing.PaymentRef.String == req.PaymentHandle {
			xcontext.WithCommitDBTransaction(ctx)
			resp := model.ConvertActivityInstance(existing)
			return &model.StartActivityResponse{Instance: resp}, nil
		}

		return nil, errorx.New(errorx.AlreadyActive, "Activity is already in progress")
	}

	if err := d.checkPrerequisites(ctx, userID, def); err != nil {
		return nil, err
	}

	if err := d.checkCap(ctx, userID, def); err != nil {
		return nil, err
	}

	paymentRef := ""
	if def.EntryFeeCents > 0 {
		ref, err := d.collectEntryFee(ctx, userID, def, req.PaymentHandle)
		if err != nil {
			return nil, err
		}

		// Authorization accepted but not settled. Nothing is written; the
		// caller comes back with the handle.
		if ref.Pending {
			return &model.StartActivityResponse{PendingPaymentHandle: ref.Handle}, nil
		}

		paymentRef = ref.Handle
	}

	instance := &entity.ActivityInstance{
		Base:                  entity.Base{ID: uuid.NewString()},
		UserID:                userID,
		ActivityID:            def.ID,
		Kind:                  def.Kind,
		Status:                entity.ActivityActive,
		StartedAt:             now,
		VerificationsRequired: def.VerificationsRequired,
		BoostsRequired:        def.BoostsRequired,
	}

	if paymentRef != "" {
		instance.PaymentRef = sqlNullString(paymentRef)
	}

	// Contests ahead of their start date wait in registered and run from
	// the gun, not from the moment of signup.
	if def.Kind == entity.KindContest && now.Before(def.StartTime.Time) {
		instance.Status = entity.ActivityRegistered
		instance.StartedAt = def.StartTime.Time
	}

	if err := d.activityRepo.CreateInstance(ctx, instance); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create instance: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	resp := d.projectInstance(now, instance)
	return &model.StartActivityResponse{Instance: resp}, nil
}

// checkPrerequisites enforces tier gating. Contests and premium definitions
// skip the foundation gate; an explicit prerequisite always applies.
func (d *activityDomain) checkPrerequisites(
	ctx context.Context, userID string, def *entity.ActivityDefinition,
) error {
	if def.PrerequisiteID.Valid {
		done, err := d.activityRepo.HasCompletion(ctx, userID, def.PrerequisiteID.String)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check prerequisite: %v", err)
			return errorx.Unknown
		}

		if !done {
			return errorx.New(errorx.PrerequisiteNotMet, "Prerequisite activity is not completed")
		}
	}

	if def.Kind == entity.KindContest || def.Premium {
		return nil
	}

	switch def.Tier {
	case 1:
		foundation, ok := d.activities.Foundation(def.Category)
		if !ok {
			return nil
		}

		done, err := d.activityRepo.HasCompletion(ctx, userID, foundation.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check foundation completion: %v", err)
			return errorx.Unknown
		}

		if !done {
			return errorx.New(errorx.PrerequisiteNotMet,
				"Complete the %s foundation first", def.Category)
		}

	case 2:
		for _, tierOne := range d.activities.ByCategoryTier(def.Category, 1) {
			done, err := d.activityRepo.HasCompletion(ctx, userID, tierOne.ID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot check tier completion: %v", err)
				return errorx.Unknown
			}

			if !done {
				return errorx.New(errorx.PrerequisiteNotMet,
					"All tier-1 %s activities must be completed first", def.Category)
			}
		}
	}

	return nil
}

// checkCap limits concurrent challenges and quests. The cap grows with
// lifetime completions and contests are never capped.
func (d *activityDomain) checkCap(
	ctx context.Context, userID string, def *entity.ActivityDefinition,
) error {
	if def.Kind == entity.KindContest {
		return nil
	}

	cfg := xcontext.Configs(ctx).Activity
	caps := cfg.Challenge
	if def.Kind == entity.KindQuest {
		caps = cfg.Quest
	}

	completed, err := d.activityRepo.CountCompletionsByKind(ctx, userID, def.Kind)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completions: %v", err)
		return errorx.Unknown
	}

	limit := caps.BaseCap + int(completed)/caps.IncreaseEvery
	if limit > caps.MaxCap {
		limit = caps.MaxCap
	}

	active, err := d.activityRepo.CountActiveByKind(ctx, userID, def.Kind)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count active instances: %v", err)
		return errorx.Unknown
	}

	if int(active) >= limit {
		return errorx.New(errorx.CapExceeded, "At most %d concurrent %ss allowed", limit, def.Kind)
	}

	return nil
}

// collectEntryFee funds a contest entry from pre-purchased credit first,
// then from the billing collaborator. The collaborator call is bounded and
// fails closed without touching any row.
func (d *activityDomain) collectEntryFee(
	ctx context.Context, userID string, def *entity.ActivityDefinition, handle string,
) (*client.AuthorizeResult, error) {
	if handle != "" {
		result, err := d.callPayment(ctx, func(callCtx context.Context) (*client.AuthorizeResult, error) {
			return d.paymentCaller.CheckPending(callCtx, handle)
		})
		if err != nil {
			return nil, err
		}

		if !result.Pending && !result.Authorized {
			return nil, errorx.New(errorx.NotEligible, "Payment was declined")
		}

		result.Handle = handle
		return result, nil
	}

	err := d.userRepo.CheckAndUseContestCredit(ctx, userID)
	if err == nil {
		return &client.AuthorizeResult{Authorized: true}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot use contest credit: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.callPayment(ctx, func(callCtx context.Context) (*client.AuthorizeResult, error) {
		return d.paymentCaller.Authorize(callCtx, userID, def.EntryFeeCents)
	})
	if err != nil {
		return nil, err
	}

	if !result.Pending && !result.Authorized {
		return nil, errorx.New(errorx.NotEligible, "Entry fee was not authorized")
	}

	return result, nil
}

func (d *activityDomain) callPayment(
	ctx context.Context, call func(context.Context) (*client.AuthorizeResult, error),
) (*client.AuthorizeResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, xcontext.Configs(ctx).Payment.Timeout)
	defer cancel()

	result, err := call(callCtx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Payment collaborator failed: %v", err)
		return nil, errorx.New(errorx.UpstreamTimeout, "Payment service unavailable, try again")
	}

	return result, nil
}

func (d *activityDomain) Cancel(
	ctx context.Context, req *model.CancelActivityRequest,
) (*model.CancelActivityResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.reconcile(ctx, userID); err != nil {
		return nil, err
	}

	instance, err := d.activityRepo.GetInstance(ctx, userID, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found running activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get instance: %v", err)
		return nil, errorx.Unknown
	}

	wasRegistered := instance.Status == entity.ActivityRegistered

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.activityRepo.Terminate(ctx, instance.ID,
		[]entity.ActivityStatus{entity.ActivityRegistered, entity.ActivityActive},
		entity.ActivityCanceled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found running activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot cancel instance: %v", err)
		return nil, errorx.Unknown
	}

	// Backing out before a contest starts returns the entry fee. After the
	// gun there is no partial credit.
	if wasRegistered {
		if err := d.refundEntry(ctx, userID, instance); err != nil {
			return nil, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CancelActivityResponse{}, nil
}

func (d *activityDomain) refundEntry(
	ctx context.Context, userID string, instance *entity.ActivityInstance,
) error {
	def, ok := d.activities.Get(instance.ActivityID)
	if !ok || def.EntryFeeCents == 0 {
		return nil
	}

	if instance.PaymentRef.Valid {
		_, err := d.callPayment(ctx, func(callCtx context.Context) (*client.AuthorizeResult, error) {
			return nil, d.paymentCaller.Refund(callCtx, userID, def.EntryFeeCents)
		})
		return err
	}

	if err := d.userRepo.RefundContestCredit(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot refund contest credit: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *activityDomain) Complete(
	ctx context.Context, req *model.CompleteActivityRequest,
) (*model.CompleteActivityResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	instance, err := d.activityRepo.GetInstance(ctx, userID, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found running activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get instance: %v", err)
		return nil, errorx.Unknown
	}

	def, ok := d.activities.Get(instance.ActivityID)
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Not found activity")
	}

	now := xcontext.Now(ctx)
	if instance.Status == entity.ActivityActive &&
		progress.Expired(now, instance.StartedAt, def.DurationDays) {
		if err := d.expireInstance(ctx, instance); err != nil {
			return nil, err
		}

		return nil, errorx.New(errorx.Expired, "Activity window has passed")
	}

	if instance.Status != entity.ActivityActive {
		return nil, errorx.New(errorx.Conflict, "Activity has not started yet")
	}

	if !requirementsMet(instance) {
		return nil, errorx.New(errorx.NotEligible, "Requirements are not met yet")
	}

	fuel, err := d.completeInstance(ctx, instance, def)
	if err != nil {
		return nil, err
	}

	return &model.CompleteActivityResponse{FuelPoints: fuel}, nil
}

func requirementsMet(instance *entity.ActivityInstance) bool {
	if instance.Kind == entity.KindQuest {
		return progress.QuestPercent(
			instance.VerificationCount, instance.VerificationsRequired,
			instance.BoostCount, instance.BoostsRequired,
		) >= 100
	}

	return instance.VerificationCount >= instance.VerificationsRequired
}

// completeInstance performs the terminal transition and everything hanging
// off it: the history row, the fuel award, quest feeding, notification.
func (d *activityDomain) completeInstance(
	ctx context.Context, instance *entity.ActivityInstance, def *entity.ActivityDefinition,
) (int, error) {
	now := xcontext.Now(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := d.activityRepo.Terminate(ctx, instance.ID,
		[]entity.ActivityStatus{entity.ActivityActive}, entity.ActivityCompleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errorx.New(errorx.Conflict, "Activity was changed concurrently")
		}

		xcontext.Logger(ctx).Errorf("Cannot complete instance: %v", err)
		return 0, errorx.Unknown
	}

	err = d.activityRepo.AppendCompletion(ctx, &entity.CompletedActivity{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      instance.UserID,
		ActivityID:  def.ID,
		Kind:        def.Kind,
		Category:    def.Category,
		Tier:        def.Tier,
		FuelPoints:  def.FuelPointReward,
		CompletedAt: now,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot append completion: %v", err)
		return 0, errorx.Unknown
	}

	source := entity.FuelFromChallenge
	switch def.Kind {
	case entity.KindQuest:
		source = entity.FuelFromQuest
	case entity.KindContest:
		source = entity.FuelFromContest
	}

	if err := d.awardFuel(ctx, instance.UserID, def.FuelPointReward, source); err != nil {
		return 0, err
	}

	// A finished challenge advances every running quest of its category.
	if def.Kind == entity.KindChallenge {
		if err := d.feedQuests(ctx, instance.UserID, def.Category); err != nil {
			return 0, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifier.Notify(ctx, client.ActivityCompletedEvent{
		UserID:     instance.UserID,
		ActivityID: def.ID,
		FuelPoints: def.FuelPointReward,
	})

	return def.FuelPointReward, nil
}

func (d *activityDomain) feedQuests(ctx context.Context, userID, category string) error {
	quests, err := d.activityRepo.ListActiveByKindCategory(ctx, userID, entity.KindQuest, category)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list running quests: %v", err)
		return errorx.Unknown
	}

	for _, quest := range quests {
		err := d.activityRepo.IncreaseVerification(ctx, quest.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot feed quest %s: %v", quest.ID, err)
			return errorx.Unknown
		}
	}

	return nil
}

// awardFuel writes the ledger row, extends or resets the burn streak, and
// bumps the warm leaderboards.
func (d *activityDomain) awardFuel(
	ctx context.Context, userID string, points int, source entity.FuelSource,
) error {
	now := xcontext.Now(ctx)

	err := d.fuelRepo.Create(ctx, &entity.FuelLog{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Points:   points,
		Source:   source,
		EarnedAt: now,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create fuel log: %v", err)
		return errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return errorx.Unknown
	}

	streak := nextBurnStreak(user, now)
	if err := d.userRepo.UpdateBurnStreak(ctx, userID, streak, now); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update burn streak: %v", err)
		return errorx.Unknown
	}

	if err := d.leaderboard.ChangeFuelLeaderboard(ctx, int64(points), now, userID); err != nil {
		return err
	}

	return nil
}

func (d *activityDomain) SubmitVerification(
	ctx context.Context, req *model.SubmitVerificationRequest,
) (*model.SubmitVerificationResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if req.Proof == "" {
		return nil, errorx.New(errorx.BadRequest, "Proof must not be empty")
	}

	instance, err := d.activityRepo.GetInstance(ctx, userID, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found running activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get instance: %v", err)
		return nil, errorx.Unknown
	}

	if instance.Kind == entity.KindQuest {
		return nil, errorx.New(errorx.BadRequest, "Quests progress through challenges and boosts")
	}

	def, ok := d.activities.Get(instance.ActivityID)
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Not found activity")
	}

	now := xcontext.Now(ctx)
	if instance.Status == entity.ActivityActive &&
		progress.Expired(now, instance.StartedAt, def.DurationDays) {
		if err := d.expireInstance(ctx, instance); err != nil {
			return nil, err
		}

		return nil, errorx.New(errorx.Expired, "Activity window has passed")
	}

	err = d.activityRepo.IncreaseVerification(ctx, instance.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Conflict, "No more verifications accepted")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase verification: %v", err)
		return nil, errorx.Unknown
	}

	instance.VerificationCount++

	resp := &model.SubmitVerificationResponse{VerificationCount: instance.VerificationCount}
	if instance.VerificationCount >= instance.VerificationsRequired {
		fuel, err := d.completeInstance(ctx, instance, def)
		if err != nil {
			return nil, err
		}

		resp.AutoCompleted = true
		resp.FuelPoints = fuel
	}

	return resp, nil
}

// reconcile applies time-based transitions a user's rows are owed: expiring
// overdue actives and promoting registered contests whose gun has fired.
func (d *activityDomain) reconcile(ctx context.Context, userID string) error {
	instances, err := d.activityRepo.ListInstances(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list instances: %v", err)
		return errorx.Unknown
	}

	now := xcontext.Now(ctx)
	for i := range instances {
		instance := &instances[i]
		switch instance.Status {
		case entity.ActivityActive:
			def, ok := d.activities.Get(instance.ActivityID)
			if ok && progress.Expired(now, instance.StartedAt, def.DurationDays) {
				if err := d.expireInstance(ctx, instance); err != nil {
					return err
				}
			}

		case entity.ActivityRegistered:
			if !now.Before(instance.StartedAt) {
				err := d.activityRepo.UpdateStatus(ctx, instance.ID,
					[]entity.ActivityStatus{entity.ActivityRegistered}, entity.ActivityActive)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					xcontext.Logger(ctx).Errorf("Cannot promote instance: %v", err)
					return errorx.Unknown
				}
			}
		}
	}

	return nil
}

func (d *activityDomain) expireInstance(ctx context.Context, instance *entity.ActivityInstance) error {
	err := d.activityRepo.Terminate(ctx, instance.ID,
		[]entity.ActivityStatus{entity.ActivityActive}, entity.ActivityExpired)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot expire instance: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *activityDomain) ExpireOverdue(ctx context.Context) error {
	instances, err := d.activityRepo.ListAllActive(ctx)
	if err != nil {
		return err
	}

	now := xcontext.Now(ctx)
	for i := range instances {
		instance := &instances[i]
		def, ok := d.activities.Get(instance.ActivityID)
		if !ok {
			continue
		}

		switch instance.Status {
		case entity.ActivityActive:
			if progress.Expired(now, instance.StartedAt, def.DurationDays) {
				if err := d.expireInstance(ctx, instance); err != nil {
					return err
				}
			}

		case entity.ActivityRegistered:
			if !now.Before(instance.StartedAt) {
				err := d.activityRepo.UpdateStatus(ctx, instance.ID,
					[]entity.ActivityStatus{entity.ActivityRegistered}, entity.ActivityActive)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
		}
	}

	return nil
}
