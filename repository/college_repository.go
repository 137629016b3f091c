package repository

import (
	"context"
	"errors"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollegeRepository persists colleges
type CollegeRepository interface {
	Create(ctx context.Context, college *model.College) error
	FindByID(ctx context.Context, id uint) (*model.College, error)
	List(ctx context.Context, filter CollegeFilter) ([]model.College, int64, error)
	Save(ctx context.Context, college *model.College) error
	// DeleteCascade soft-deletes the college and its course record in one
	// transaction. It reports whether a course record was deleted too.
	DeleteCascade(ctx context.Context, id uint, actor audit.Actor) (bool, error)
}

type collegeRepository struct {
	db *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) CollegeRepository {
	return &collegeRepository{db: db}
}

func (r *collegeRepository) Create(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

func (r *collegeRepository) FindByID(ctx context.Context, id uint) (*model.College, error) {
	var college model.College
	if err := r.db.WithContext(ctx).First(&college, id).Error; err != nil {
		return nil, err
	}
	return &college, nil
}

func (r *collegeRepository) List(ctx context.Context, filter CollegeFilter) ([]model.College, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.College{}).Scopes(filter.Scope("colleges"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := filter.Pagination()

	var colleges []model.College
	err := base.Session(&gorm.Session{}).
		Order("colleges.featured DESC, colleges.rating DESC, colleges.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&colleges).Error
	if err != nil {
		return nil, 0, err
	}
	return colleges, total, nil
}

func (r *collegeRepository) Save(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Save(college).Error
}

func (r *collegeRepository) DeleteCascade(ctx context.Context, id uint, actor audit.Actor) (bool, error) {
	courseDeleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var college model.College
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&college, id).Error; err != nil {
			return err
		}

		if err := softDelete(tx, &model.College{}, college.ID, actor); err != nil {
			return err
		}

		var course model.Course
		err := tx.Where("college_id = ?", college.ID).First(&course).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := softDelete(tx, &model.Course{}, course.ID, actor); err != nil {
			return err
		}
		courseDeleted = true
		return nil
	})

	return courseDeleted, err
}
