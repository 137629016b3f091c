package repository

import (
	"context"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"gorm.io/gorm"
)

// AdmissionRepository persists admission applications
type AdmissionRepository interface {
	Create(ctx context.Context, application *model.AdmissionApplication) error
	FindByID(ctx context.Context, id uint) (*model.AdmissionApplication, error)
	List(ctx context.Context, page, limit int) ([]model.AdmissionApplication, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]model.AdmissionApplication, error)
	Save(ctx context.Context, application *model.AdmissionApplication) error
	SoftDelete(ctx context.Context, id uint, actor audit.Actor) error
}

type admissionRepository struct {
	db *gorm.DB
}

func NewAdmissionRepository(db *gorm.DB) AdmissionRepository {
	return &admissionRepository{db: db}
}

func (r *admissionRepository) Create(ctx context.Context, application *model.AdmissionApplication) error {
	return r.db.WithContext(ctx).Omit("User", "College", "Course").Create(application).Error
}

func (r *admissionRepository) FindByID(ctx context.Context, id uint) (*model.AdmissionApplication, error) {
	var application model.AdmissionApplication
	if err := r.db.WithContext(ctx).Preload("College").First(&application, id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *admissionRepository) List(ctx context.Context, page, limit int) ([]model.AdmissionApplication, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.AdmissionApplication{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	applications := []model.AdmissionApplication{}
	err := r.db.WithContext(ctx).
		Preload("College").
		Order("created_at DESC, id DESC").
		Scopes(paginate(page, limit)).
		Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

func (r *admissionRepository) ListByUser(ctx context.Context, userID uint) ([]model.AdmissionApplication, error) {
	applications := []model.AdmissionApplication{}
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&applications).Error
	return applications, err
}

func (r *admissionRepository) Save(ctx context.Context, application *model.AdmissionApplication) error {
	return r.db.WithContext(ctx).Omit("User", "College", "Course").Save(application).Error
}

func (r *admissionRepository) SoftDelete(ctx context.Context, id uint, actor audit.Actor) error {
	return softDelete(r.db.WithContext(ctx), &model.AdmissionApplication{}, id, actor)
}
