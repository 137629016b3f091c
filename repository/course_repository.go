package repository

import (
	"context"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"gorm.io/gorm"
)

// CourseRepository persists per-college course records
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindByCollegeID(ctx context.Context, collegeID uint) (*model.Course, error)
	List(ctx context.Context, page, limit int) ([]model.Course, int64, error)
	// ListWithColleges runs the filtered course/college join with pagination
	ListWithColleges(ctx context.Context, filter CourseFilter) (*CourseListResult, error)
	Save(ctx context.Context, course *model.Course) error
	SoftDelete(ctx context.Context, id uint, actor audit.Actor) error
	// SweepOrphans soft-deletes courses whose college is missing or deleted
	SweepOrphans(ctx context.Context) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByCollegeID(ctx context.Context, collegeID uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("college_id = ?", collegeID).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, page, limit int) ([]model.Course, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Scopes(paginate(page, limit)).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepository) ListWithColleges(ctx context.Context, filter CourseFilter) (*CourseListResult, error) {
	base := r.db.WithContext(ctx).Model(&model.Course{}).Scopes(filter.Scope())

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	_, limit, offset := filter.Pagination()

	courses := []model.Course{}
	err := base.Session(&gorm.Session{}).
		Preload("College").
		Order("courses.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return &CourseListResult{Courses: courses, TotalDocuments: total}, nil
}

func (r *courseRepository) Save(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit("College").Save(course).Error
}

func (r *courseRepository) SoftDelete(ctx context.Context, id uint, actor audit.Actor) error {
	return softDelete(r.db.WithContext(ctx), &model.Course{}, id, actor)
}

func (r *courseRepository) SweepOrphans(ctx context.Context) (int64, error) {
	orphans := r.db.Model(&model.College{}).
		Unscoped().
		Select("1").
		Where("colleges.id = courses.college_id AND colleges.deleted_at IS NULL")

	var swept int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Course{}).
			Where("NOT EXISTS (?)", orphans).
			Updates(map[string]any{"is_deleted": true})
		if res.Error != nil {
			return res.Error
		}
		res = tx.Where("is_deleted = ?", true).Delete(&model.Course{})
		swept = res.RowsAffected
		return res.Error
	})
	return swept, err
}
