package repository

import (
	"context"
	"time"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CallbackRepository persists callback requests
type CallbackRepository interface {
	// CreateWithinLimit counts the user's unexpired requests and inserts a new
	// one only when the count is below limit. Concurrent calls for the same
	// user are serialized on the user row. When the limit is reached the
	// returned request is nil and count is the number already pending.
	CreateWithinLimit(ctx context.Context, userID uint, limit int, expireAt time.Time, actor audit.Actor) (*model.CallbackRequest, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]model.CallbackRequest, error)
	DeleteByUser(ctx context.Context, userID uint, actor audit.Actor) (int64, error)
	// PurgeExpired hard-deletes requests whose expiry has passed
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type callbackRepository struct {
	db *gorm.DB
}

func NewCallbackRepository(db *gorm.DB) CallbackRepository {
	return &callbackRepository{db: db}
}

func (r *callbackRepository) CreateWithinLimit(ctx context.Context, userID uint, limit int, expireAt time.Time, actor audit.Actor) (*model.CallbackRequest, int64, error) {
	var (
		created *model.CallbackRequest
		count   int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, userID).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.CallbackRequest{}).
			Where("user_id = ? AND expire_at > ?", userID, time.Now()).
			Count(&count).Error; err != nil {
			return err
		}

		if count >= int64(limit) {
			return nil
		}

		created = &model.CallbackRequest{
			UserID:   userID,
			ExpireAt: expireAt,
			Audit:    model.Audit{CreatedBy: actor.Ptr(), UpdatedBy: actor.Ptr()},
		}
		return tx.Omit("User").Create(created).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return created, count, nil
}

func (r *callbackRepository) ListByUser(ctx context.Context, userID uint) ([]model.CallbackRequest, error) {
	var requests []model.CallbackRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expire_at > ?", userID, time.Now()).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *callbackRepository) DeleteByUser(ctx context.Context, userID uint, actor audit.Actor) (int64, error) {
	var deleted int64
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CallbackRequest{}).
			Where("user_id = ? AND expire_at > ?", userID, now).
			Updates(map[string]any{"is_deleted": true, "deleted_by": actor.Ptr()})
		if res.Error != nil {
			return res.Error
		}
		res = tx.Where("user_id = ? AND expire_at > ?", userID, now).Delete(&model.CallbackRequest{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

func (r *callbackRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("expire_at <= ?", now).
		Delete(&model.CallbackRequest{})
	return res.RowsAffected, res.Error
}
