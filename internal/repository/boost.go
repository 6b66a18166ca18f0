package repository

import (
	"context"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

type BoostRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Boost, error)
	GetAll(ctx context.Context) ([]entity.Boost, error)
	Create(ctx context.Context, boost *entity.Boost) error
	CreateCompletion(ctx context.Context, completion *entity.BoostCompletion) error
	CountCompletionsOn(ctx context.Context, userID, boostID, day string) (int64, error)
}

type boostRepository struct{}

func NewBoostRepository() *boostRepository {
	return &boostRepository{}
}

func (r *boostRepository) GetByID(ctx context.Context, id string) (*entity.Boost, error) {
	var result entity.Boost
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *boostRepository) GetAll(ctx context.Context) ([]entity.Boost, error) {
	var result []entity.Boost
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *boostRepository) Create(ctx context.Context, boost *entity.Boost) error {
	return xcontext.DB(ctx).Create(boost).Error
}

// CreateCompletion relies on the unique (user, boost, day) index to reject
// a second completion of the same boost in one day.
func (r *boostRepository) CreateCompletion(ctx context.Context, completion *entity.BoostCompletion) error {
	return xcontext.DB(ctx).Create(completion).Error
}

func (r *boostRepository) CountCompletionsOn(
	ctx context.Context, userID, boostID, day string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.BoostCompletion{}).
		Where("user_id=? AND boost_id=? AND completed_on=?", userID, boostID, day).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
