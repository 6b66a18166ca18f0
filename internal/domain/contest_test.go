package domain

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rocketman2178/healthrocket-backend/internal/catalog"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestContestDomain(
	ctx context.Context, payment *testutil.MockPaymentCaller,
) *contestDomain {
	activities, err := catalog.Load(ctx, repository.NewActivityRepository())
	if err != nil {
		panic(err)
	}

	return NewContestDomain(
		repository.NewActivityRepository(),
		repository.NewUserRepository(),
		repository.NewPrizeRepository(),
		activities,
		payment,
	)
}

// enterContest registers a paid entry, or a credit-funded one when
// paymentRef is empty.
func enterContest(
	t *testing.T, ctx context.Context, def entity.ActivityDefinition, userID, paymentRef string,
) {
	t.Helper()

	instance := &entity.ActivityInstance{
		Base:                  entity.Base{ID: uuid.NewString()},
		UserID:                userID,
		ActivityID:            def.ID,
		Kind:                  def.Kind,
		Status:                entity.ActivityActive,
		StartedAt:             def.StartTime.Time,
		VerificationsRequired: def.VerificationsRequired,
	}
	if paymentRef != "" {
		instance.PaymentRef = sql.NullString{String: paymentRef, Valid: true}
	}

	require.NoError(t, repository.NewActivityRepository().CreateInstance(ctx, instance))
}

func finishContest(
	t *testing.T, ctx context.Context, def entity.ActivityDefinition, userID string, at time.Time,
) {
	t.Helper()

	err := repository.NewActivityRepository().AppendCompletion(ctx, &entity.CompletedActivity{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		ActivityID:  def.ID,
		Kind:        def.Kind,
		Category:    def.Category,
		FuelPoints:  def.FuelPointReward,
		CompletedAt: at,
	})
	require.NoError(t, err)
}

func Test_contestDomain_Settle_QuantileBands(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))

	contest := testutil.SampleContest(ctx, nil) // runs June 1 to 15, fee 2500

	// Ten entrants, everyone finishes, one minute apart.
	users := make([]entity.User, 10)
	for i := range users {
		users[i] = testutil.SampleUser(ctx, nil)
		enterContest(t, ctx, contest, users[i].ID, fmt.Sprintf("auth-%d", i))
		finishContest(t, ctx, contest, users[i].ID,
			time.Date(2024, time.June, 14, 10, i, 0, 0, time.UTC))
	}

	domain := newTestContestDomain(ctx, &testutil.MockPaymentCaller{})

	resp, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: contest.ID})
	require.NoError(t, err)

	// Pool is 25000 cents. The top tenth (one finisher) takes 75 percent,
	// ranks two to five split the rest, and flooring leftovers land on the
	// winner.
	require.Len(t, resp.Payouts, 5)
	require.Equal(t, model.ContestPayout{
		UserID:      users[0].ID,
		Rank:        1,
		AmountCents: 18752,
	}, resp.Payouts[0])

	var total int64
	for i, payout := range resp.Payouts {
		require.Equal(t, users[i].ID, payout.UserID)
		require.Equal(t, i+1, payout.Rank)
		if i > 0 {
			require.Equal(t, int64(1562), payout.AmountCents)
		}
		total += payout.AmountCents
	}
	require.Equal(t, int64(25000), total)
}

func Test_contestDomain_Settle_SmallFieldWinnerTakesAll(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))

	contest := testutil.SampleContest(ctx, nil)

	users := make([]entity.User, 4)
	for i := range users {
		users[i] = testutil.SampleUser(ctx, nil)
		enterContest(t, ctx, contest, users[i].ID, fmt.Sprintf("auth-%d", i))
	}

	// Only two finish; fewer than four finishers means rank one takes the
	// whole pool.
	finishContest(t, ctx, contest, users[2].ID, time.Date(2024, time.June, 13, 8, 0, 0, 0, time.UTC))
	finishContest(t, ctx, contest, users[0].ID, time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC))

	domain := newTestContestDomain(ctx, &testutil.MockPaymentCaller{})

	resp, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: contest.ID})
	require.NoError(t, err)
	require.Equal(t, []model.ContestPayout{
		{UserID: users[2].ID, Rank: 1, AmountCents: 10000},
	}, resp.Payouts)
}

func Test_contestDomain_Settle_RefundsBelowMinimum(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))

	contest := testutil.SampleContest(ctx, nil) // MinPlayers 4

	paid := testutil.SampleUser(ctx, nil)
	credited := testutil.SampleUser(ctx, nil)
	enterContest(t, ctx, contest, paid.ID, "auth-1")
	enterContest(t, ctx, contest, credited.ID, "")
	finishContest(t, ctx, contest, paid.ID, time.Date(2024, time.June, 13, 8, 0, 0, 0, time.UTC))

	payment := &testutil.MockPaymentCaller{}
	domain := newTestContestDomain(ctx, payment)

	resp, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: contest.ID})
	require.NoError(t, err)
	require.Len(t, resp.Payouts, 2)
	for _, payout := range resp.Payouts {
		require.True(t, payout.Refund)
		require.Equal(t, 0, payout.Rank)
		require.Equal(t, int64(2500), payout.AmountCents)
	}

	// The paid entry goes back through the payment service, the credit
	// entry back onto the account.
	require.Equal(t, []string{paid.ID}, payment.Refunded)

	after, err := repository.NewUserRepository().GetByID(ctx, credited.ID)
	require.NoError(t, err)
	require.Equal(t, 1, after.ContestCredits)
}

func Test_contestDomain_Settle_NoCompletionsRefunds(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))

	contest := testutil.SampleContest(ctx, nil)

	users := make([]entity.User, 5)
	for i := range users {
		users[i] = testutil.SampleUser(ctx, nil)
		enterContest(t, ctx, contest, users[i].ID, fmt.Sprintf("auth-%d", i))
	}

	payment := &testutil.MockPaymentCaller{}
	domain := newTestContestDomain(ctx, payment)

	resp, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: contest.ID})
	require.NoError(t, err)
	require.Len(t, resp.Payouts, 5)
	require.Len(t, payment.Refunded, 5)
}

func Test_contestDomain_Settle_Idempotent(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))

	contest := testutil.SampleContest(ctx, nil)

	users := make([]entity.User, 4)
	for i := range users {
		users[i] = testutil.SampleUser(ctx, nil)
		enterContest(t, ctx, contest, users[i].ID, fmt.Sprintf("auth-%d", i))
		finishContest(t, ctx, contest, users[i].ID,
			time.Date(2024, time.June, 14, 10, i, 0, 0, time.UTC))
	}

	domain := newTestContestDomain(ctx, &testutil.MockPaymentCaller{})

	first, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: contest.ID})
	require.NoError(t, err)

	second, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: contest.ID})
	require.NoError(t, err)
	require.Equal(t, first.Payouts, second.Payouts)

	stored, err := repository.NewPrizeRepository().ListPayoutsByActivityID(ctx, contest.ID)
	require.NoError(t, err)
	require.Len(t, stored, len(first.Payouts))
}

func Test_contestDomain_Settle_StillRunning(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 10, 6, 0, 0, 0, time.UTC))

	contest := testutil.SampleContest(ctx, nil)
	domain := newTestContestDomain(ctx, &testutil.MockPaymentCaller{})

	_, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: contest.ID})
	requireErrorxCode(t, err, errorx.Conflict)
}

func Test_contestDomain_Settle_NotAContest(t *testing.T) {
	ctx := testutil.MockContext()
	ctx, _ = testutil.WithTime(ctx, time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))

	challenge := testutil.SampleChallenge(ctx, nil)
	domain := newTestContestDomain(ctx, &testutil.MockPaymentCaller{})

	_, err := domain.Settle(ctx, &model.SettleContestRequest{ActivityID: challenge.ID})
	requireErrorxCode(t, err, errorx.NotFound)
}
