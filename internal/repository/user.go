package repository

import (
	"context"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	ListAll(ctx context.Context) ([]entity.User, error)
	ListByStatus(ctx context.Context, status entity.UserStatus) ([]entity.User, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.UserStatus, at time.Time) error
	UpdateBurnStreak(ctx context.Context, id string, streak int, earnedAt time.Time) error
	CheckAndUseContestCredit(ctx context.Context, id string) error
	RefundContestCredit(ctx context.Context, id string) error
	OpenStatusHistory(ctx context.Context, history *entity.StatusHistory) error
	CloseStatusHistory(ctx context.Context, userID string, endedAt time.Time) error
	ListStatusHistory(ctx context.Context, userID string) ([]entity.StatusHistory, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByIDForUpdate locks the user row until the surrounding transaction
// ends. Instance rows have no unique live index, so activity starts take
// this lock to serialize per user.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	var result []entity.User
	if err := xcontext.DB(ctx).Find(&result, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) ListAll(ctx context.Context) ([]entity.User, error) {
	var result []entity.User
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) ListByStatus(ctx context.Context, status entity.UserStatus) ([]entity.User, error) {
	var result []entity.User
	if err := xcontext.DB(ctx).Find(&result, "status=?", status).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus only applies when the user still holds the expected status,
// so concurrent tier refreshes cannot clobber each other.
func (r *userRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.UserStatus, at time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND status=?", id, from).
		Updates(map[string]any{
			"status":            to,
			"status_changed_at": at,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) UpdateBurnStreak(
	ctx context.Context, id string, streak int, earnedAt time.Time,
) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{
			"burn_streak":    streak,
			"last_earned_at": earnedAt,
		}).Error
}

// CheckAndUseContestCredit atomically spends one credit. The guard prevents
// the balance from going negative under concurrent entries.
func (r *userRepository) CheckAndUseContestCredit(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND contest_credits >= 1", id).
		Update("contest_credits", gorm.Expr("contest_credits-?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) RefundContestCredit(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("contest_credits", gorm.Expr("contest_credits+?", 1)).Error
}

func (r *userRepository) OpenStatusHistory(ctx context.Context, history *entity.StatusHistory) error {
	return xcontext.DB(ctx).Create(history).Error
}

func (r *userRepository) CloseStatusHistory(ctx context.Context, userID string, endedAt time.Time) error {
	return xcontext.DB(ctx).Model(&entity.StatusHistory{}).
		Where("user_id=? AND ended_at IS NULL", userID).
		Update("ended_at", endedAt).Error
}

func (r *userRepository) ListStatusHistory(ctx context.Context, userID string) ([]entity.StatusHistory, error) {
	var result []entity.StatusHistory
	err := xcontext.DB(ctx).
		Order("started_at ASC").
		Find(&result, "user_id=?", userID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
