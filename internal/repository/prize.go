package repository

import (
	"context"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PrizeRepository interface {
	CreatePrize(ctx context.Context, prize *entity.Prize) error
	GetPrize(ctx context.Context, id string) (*entity.Prize, error)
	ListByPoolPeriod(ctx context.Context, pool entity.PrizePool, period string) ([]entity.Prize, error)
	CheckAndClaimPrize(ctx context.Context, prizeID string) error
	CreateDistribution(ctx context.Context, distribution *entity.PrizeDistribution) error
	ListDistributionsByPeriod(ctx context.Context, period string) ([]entity.PrizeDistribution, error)
	CountDistributionsByPeriod(ctx context.Context, pool entity.PrizePool, period string) (int64, error)
	CreatePayout(ctx context.Context, payout *entity.ContestPayout) error
	ListPayoutsByActivityID(ctx context.Context, activityID string) ([]entity.ContestPayout, error)
}

type prizeRepository struct{}

func NewPrizeRepository() *prizeRepository {
	return &prizeRepository{}
}

func (r *prizeRepository) CreatePrize(ctx context.Context, prize *entity.Prize) error {
	return xcontext.DB(ctx).Create(prize).Error
}

func (r *prizeRepository) GetPrize(ctx context.Context, id string) (*entity.Prize, error) {
	var result entity.Prize
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeRepository) ListByPoolPeriod(
	ctx context.Context, pool entity.PrizePool, period string,
) ([]entity.Prize, error) {
	var result []entity.Prize
	err := xcontext.DB(ctx).
		Order("priority DESC").
		Find(&result, "pool=? AND period=?", pool, period).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CheckAndClaimPrize consumes one unit of stock. It fails with
// gorm.ErrRecordNotFound once claimed reaches quantity, so a draw can never
// hand out more units than exist.
func (r *prizeRepository) CheckAndClaimPrize(ctx context.Context, prizeID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Prize{}).
		Where("id=? AND claimed < quantity", prizeID).
		Update("claimed", gorm.Expr("claimed+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *prizeRepository) CreateDistribution(
	ctx context.Context, distribution *entity.PrizeDistribution,
) error {
	return xcontext.DB(ctx).Create(distribution).Error
}

func (r *prizeRepository) ListDistributionsByPeriod(
	ctx context.Context, period string,
) ([]entity.PrizeDistribution, error) {
	var result []entity.PrizeDistribution
	if err := xcontext.DB(ctx).Find(&result, "period=?", period).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRepository) CountDistributionsByPeriod(
	ctx context.Context, pool entity.PrizePool, period string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.PrizeDistribution{}).
		Where("pool=? AND period=?", pool, period).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *prizeRepository) CreatePayout(ctx context.Context, payout *entity.ContestPayout) error {
	return xcontext.DB(ctx).Create(payout).Error
}

func (r *prizeRepository) ListPayoutsByActivityID(
	ctx context.Context, activityID string,
) ([]entity.ContestPayout, error) {
	var result []entity.ContestPayout
	err := xcontext.DB(ctx).
		Order("rank ASC").
		Find(&result, "activity_id=?", activityID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
