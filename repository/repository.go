package repository

import (
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"gorm.io/gorm"
)

// softDelete stamps the deleting actor and then soft-deletes the row.
// It returns gorm.ErrRecordNotFound when no live row has the id.
func softDelete(tx *gorm.DB, value any, id uint, actor audit.Actor) error {
	res := tx.Model(value).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "deleted_by": actor.Ptr()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return tx.Delete(value, id).Error
}

func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	page, limit = NormalizePage(page, limit)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
