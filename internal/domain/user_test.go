package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/testutil"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContext()

	user := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	domain := NewUserDomain(repository.NewUserRepository())

	resp, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, user.ID, resp.User.ID)
	require.Equal(t, user.Name, resp.User.Name)
	require.Equal(t, string(entity.Commander), resp.User.Status)

	ctx = xcontext.WithRequestUserID(testutil.MockContext(), "nobody")
	_, err = domain.GetMe(ctx, &model.GetMeRequest{})
	requireErrorxCode(t, err, errorx.NotFound)
}

func Test_userDomain_GetStatusHistory(t *testing.T) {
	ctx := testutil.MockContext()

	user := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	userRepo := repository.NewUserRepository()

	past := entity.StatusHistory{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    user.ID,
		Status:    entity.Hero,
		StartedAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, userRepo.OpenStatusHistory(ctx, &past))
	require.NoError(t, userRepo.CloseStatusHistory(ctx, user.ID,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, userRepo.OpenStatusHistory(ctx, &entity.StatusHistory{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    user.ID,
		Status:    entity.Commander,
		StartedAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}))

	domain := NewUserDomain(userRepo)

	resp, err := domain.GetStatusHistory(ctx, &model.GetStatusHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.History, 2)
	require.Equal(t, string(entity.Hero), resp.History[0].Status)
	require.NotEmpty(t, resp.History[0].EndedAt)
	require.Equal(t, string(entity.Commander), resp.History[1].Status)
	require.Empty(t, resp.History[1].EndedAt)
}
