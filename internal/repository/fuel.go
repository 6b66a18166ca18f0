package repository

import (
	"context"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

type UserFuelTotal struct {
	UserID string
	Total  int
}

type FuelRepository interface {
	Create(ctx context.Context, log *entity.FuelLog) error
	ListByUser(ctx context.Context, userID string, from time.Time) ([]entity.FuelLog, error)
	TotalsBetween(ctx context.Context, from, to time.Time) ([]UserFuelTotal, error)
	ActiveDays(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

type fuelRepository struct{}

func NewFuelRepository() *fuelRepository {
	return &fuelRepository{}
}

func (r *fuelRepository) Create(ctx context.Context, log *entity.FuelLog) error {
	return xcontext.DB(ctx).Create(log).Error
}

func (r *fuelRepository) ListByUser(
	ctx context.Context, userID string, from time.Time,
) ([]entity.FuelLog, error) {
	var result []entity.FuelLog
	err := xcontext.DB(ctx).
		Order("earned_at ASC").
		Find(&result, "user_id=? AND earned_at >= ?", userID, from).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TotalsBetween sums fuel points per user over the window, including users
// with no entries at all through a left join. Zero-earners matter when the
// totals feed percentile thresholds.
func (r *fuelRepository) TotalsBetween(ctx context.Context, from, to time.Time) ([]UserFuelTotal, error) {
	var result []UserFuelTotal
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Select("users.id AS user_id, COALESCE(SUM(fuel_logs.points), 0) AS total").
		Joins("left join fuel_logs on fuel_logs.user_id=users.id AND fuel_logs.earned_at >= ? AND fuel_logs.earned_at < ?",
			from, to).
		Group("users.id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *fuelRepository) ActiveDays(
	ctx context.Context, userID string, from, to time.Time,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.FuelLog{}).
		Select("COUNT(DISTINCT DATE(earned_at))").
		Where("user_id=? AND earned_at >= ? AND earned_at < ?", userID, from, to).
		Scan(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
