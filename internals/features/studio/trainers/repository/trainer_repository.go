package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/trainers/dto"
	"studiofit_backend/internals/features/studio/trainers/model"
	helper "studiofit_backend/internals/helpers"
)

type Repository interface {
	List(ctx context.Context, studioID uuid.UUID, q dto.ListTrainerQuery, p helper.Paging) ([]model.TrainerModel, int64, error)
	Find(ctx context.Context, studioID, id uuid.UUID) (*model.TrainerModel, error)
	Create(ctx context.Context, m *model.TrainerModel) error
	Update(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, studioID, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, q dto.ListTrainerQuery, p helper.Paging) ([]model.TrainerModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.TrainerModel{}).Where("studio_id = ?", studioID)
	if q.Active != nil {
		tx = tx.Where("is_active = ?", *q.Active)
	}
	if q.Specialty != "" {
		tx = tx.Where("? = ANY(specialties)", q.Specialty)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.TrainerModel
	err := tx.Order("first_name ASC, last_name ASC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error
	return out, total, err
}

func (r *gormRepository) Find(ctx context.Context, studioID, id uuid.UUID) (*model.TrainerModel, error) {
	var m model.TrainerModel
	if err := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) Create(ctx context.Context, m *model.TrainerModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) Update(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.TrainerModel{}).
		Where("studio_id = ? AND id = ?", studioID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, studioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).Delete(&model.TrainerModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
