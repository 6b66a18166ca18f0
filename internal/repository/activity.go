package repository

import (
	"context"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository interface {
	// Definitions
	GetDefinitions(ctx context.Context) ([]entity.ActivityDefinition, error)
	CreateDefinition(ctx context.Context, def *entity.ActivityDefinition) error

	// Instances. Live rows are always in {registered, active}; terminal rows
	// are soft-deleted with their final status recorded.
	GetInstance(ctx context.Context, userID, activityID string) (*entity.ActivityInstance, error)
	GetInstanceForUpdate(ctx context.Context, userID, activityID string) (*entity.ActivityInstance, error)
	ListInstances(ctx context.Context, userID string) ([]entity.ActivityInstance, error)
	CountActiveByKind(ctx context.Context, userID string, kind entity.ActivityKind) (int64, error)
	CountParticipants(ctx context.Context, activityID string) (int64, error)
	CountEntrants(ctx context.Context, activityID string) (int64, error)
	ListEntrants(ctx context.Context, activityID string) ([]entity.ActivityInstance, error)
	ListAllActive(ctx context.Context) ([]entity.ActivityInstance, error)
	CreateInstance(ctx context.Context, instance *entity.ActivityInstance) error
	UpdateStatus(ctx context.Context, id string, from []entity.ActivityStatus, to entity.ActivityStatus) error
	Terminate(ctx context.Context, id string, from []entity.ActivityStatus, to entity.ActivityStatus) error
	IncreaseVerification(ctx context.Context, id string) error
	IncreaseBoost(ctx context.Context, id string) error
	ListActiveByKindCategory(ctx context.Context, userID string, kind entity.ActivityKind, category string) ([]entity.ActivityInstance, error)

	// Completions
	AppendCompletion(ctx context.Context, record *entity.CompletedActivity) error
	CountCompletionsByKind(ctx context.Context, userID string, kind entity.ActivityKind) (int64, error)
	HasCompletion(ctx context.Context, userID, activityID string) (bool, error)
	ListCompletionsByActivityID(ctx context.Context, activityID string) ([]entity.CompletedActivity, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) GetDefinitions(ctx context.Context) ([]entity.ActivityDefinition, error) {
	var result []entity.ActivityDefinition
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityRepository) CreateDefinition(ctx context.Context, def *entity.ActivityDefinition) error {
	return xcontext.DB(ctx).Create(def).Error
}

func (r *activityRepository) GetInstance(
	ctx context.Context, userID, activityID string,
) (*entity.ActivityInstance, error) {
	var result entity.ActivityInstance
	err := xcontext.DB(ctx).
		Where("user_id=? AND activity_id=?", userID, activityID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetInstanceForUpdate locks the live row until the surrounding transaction
// ends, so two concurrent starts of the same activity serialize and the
// loser observes the winner's row.
func (r *activityRepository) GetInstanceForUpdate(
	ctx context.Context, userID, activityID string,
) (*entity.ActivityInstance, error) {
	var result entity.ActivityInstance
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id=? AND activity_id=?", userID, activityID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *activityRepository) ListInstances(
	ctx context.Context, userID string,
) ([]entity.ActivityInstance, error) {
	var result []entity.ActivityInstance
	if err := xcontext.DB(ctx).Find(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityRepository) CountActiveByKind(
	ctx context.Context, userID string, kind entity.ActivityKind,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.ActivityInstance{}).
		Where("user_id=? AND kind=? AND status=?", userID, kind, entity.ActivityActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *activityRepository) CountParticipants(ctx context.Context, activityID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.ActivityInstance{}).
		Where("activity_id=?", activityID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CountEntrants includes soft-deleted rows, so players whose pursuit ended
// still count toward a contest's fee pool. Canceled entries were refunded
// and drop out.
func (r *activityRepository) CountEntrants(ctx context.Context, activityID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Unscoped().Model(&entity.ActivityInstance{}).
		Where("activity_id=? AND status <> ?", activityID, entity.ActivityCanceled).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ListEntrants mirrors CountEntrants.
func (r *activityRepository) ListEntrants(
	ctx context.Context, activityID string,
) ([]entity.ActivityInstance, error) {
	var result []entity.ActivityInstance
	err := xcontext.DB(ctx).Unscoped().
		Where("activity_id=? AND status <> ?", activityID, entity.ActivityCanceled).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityRepository) ListAllActive(ctx context.Context) ([]entity.ActivityInstance, error) {
	var result []entity.ActivityInstance
	err := xcontext.DB(ctx).
		Find(&result, "status IN ?", []entity.ActivityStatus{
			entity.ActivityRegistered, entity.ActivityActive,
		}).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityRepository) CreateInstance(ctx context.Context, instance *entity.ActivityInstance) error {
	return xcontext.DB(ctx).Create(instance).Error
}

// UpdateStatus moves an instance to a new status only if its current status
// is in from. It returns gorm.ErrRecordNotFound when the precondition fails,
// which callers surface as a conflict.
func (r *activityRepository) UpdateStatus(
	ctx context.Context, id string, from []entity.ActivityStatus, to entity.ActivityStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.ActivityInstance{}).
		Where("id=? AND status IN ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Terminate records the final status then soft-deletes the row, guarded by
// the same status precondition as UpdateStatus.
func (r *activityRepository) Terminate(
	ctx context.Context, id string, from []entity.ActivityStatus, to entity.ActivityStatus,
) error {
	if err := r.UpdateStatus(ctx, id, from, to); err != nil {
		return err
	}

	return xcontext.DB(ctx).Delete(&entity.ActivityInstance{}, "id=?", id).Error
}

func (r *activityRepository) IncreaseVerification(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.ActivityInstance{}).
		Where("id=? AND status=? AND verification_count < verifications_required",
			id, entity.ActivityActive).
		Update("verification_count", gorm.Expr("verification_count+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *activityRepository) IncreaseBoost(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.ActivityInstance{}).
		Where("id=? AND status=? AND boost_count < boosts_required", id, entity.ActivityActive).
		Update("boost_count", gorm.Expr("boost_count+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *activityRepository) ListActiveByKindCategory(
	ctx context.Context, userID string, kind entity.ActivityKind, category string,
) ([]entity.ActivityInstance, error) {
	var result []entity.ActivityInstance
	err := xcontext.DB(ctx).
		Joins("join activity_definitions on activity_definitions.id=activity_instances.activity_id").
		Where("activity_instances.user_id=? AND activity_instances.kind=? AND activity_instances.status=?",
			userID, kind, entity.ActivityActive).
		Where("activity_definitions.category=?", category).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityRepository) AppendCompletion(ctx context.Context, record *entity.CompletedActivity) error {
	return xcontext.DB(ctx).Create(record).Error
}

func (r *activityRepository) CountCompletionsByKind(
	ctx context.Context, userID string, kind entity.ActivityKind,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.CompletedActivity{}).
		Where("user_id=? AND kind=?", userID, kind).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *activityRepository) HasCompletion(ctx context.Context, userID, activityID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.CompletedActivity{}).
		Where("user_id=? AND activity_id=?", userID, activityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *activityRepository) ListCompletionsByActivityID(
	ctx context.Context, activityID string,
) ([]entity.CompletedActivity, error) {
	var result []entity.CompletedActivity
	err := xcontext.DB(ctx).
		Order("completed_at ASC").
		Find(&result, "activity_id=?", activityID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
