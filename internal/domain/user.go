package domain

import (
	"context"
	"errors"

	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetStatusHistory(context.Context, *model.GetStatusHistoryRequest) (*model.GetStatusHistoryResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}

func (d *userDomain) GetStatusHistory(
	ctx context.Context, req *model.GetStatusHistoryRequest,
) (*model.GetStatusHistoryResponse, error) {
	history, err := d.userRepo.ListStatusHistory(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list status history: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.StatusHistoryEntry{}
	for _, h := range history {
		entry := model.StatusHistoryEntry{
			Status:    string(h.Status),
			StartedAt: h.StartedAt.Format(model.DefaultTimeLayout),
		}
		if h.EndedAt.Valid {
			entry.EndedAt = h.EndedAt.Time.Format(model.DefaultTimeLayout)
		}

		entries = append(entries, entry)
	}

	return &model.GetStatusHistoryResponse{History: entries}, nil
}
