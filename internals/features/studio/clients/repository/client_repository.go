package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/clients/dto"
	"studiofit_backend/internals/features/studio/clients/model"
	helper "studiofit_backend/internals/helpers"
)

// Every call takes a studio id; scope, when non-nil, narrows to one trainer's clients.
type Repository interface {
	List(ctx context.Context, studioID uuid.UUID, q dto.ListClientQuery, p helper.Paging) ([]model.ClientModel, int64, error)
	Find(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) (*model.ClientModel, error)
	Create(ctx context.Context, m *model.ClientModel) error
	Update(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) error
	TrainerExists(ctx context.Context, studioID, trainerID uuid.UUID) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) scoped(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.ClientModel{}).Where("studio_id = ?", studioID)
	if scope != nil {
		tx = tx.Where("trainer_id = ?", *scope)
	}
	return tx
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, q dto.ListClientQuery, p helper.Paging) ([]model.ClientModel, int64, error) {
	tx := r.scoped(ctx, studioID, q.TrainerID)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.ClientModel
	err := tx.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error
	return out, total, err
}

func (r *gormRepository) Find(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) (*model.ClientModel, error) {
	var m model.ClientModel
	if err := r.scoped(ctx, studioID, scope).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) Create(ctx context.Context, m *model.ClientModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) Update(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID, updates map[string]any) error {
	res := r.scoped(ctx, studioID, scope).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) error {
	res := r.scoped(ctx, studioID, scope).Where("id = ?", id).Delete(&model.ClientModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) TrainerExists(ctx context.Context, studioID, trainerID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("trainers").
		Where("studio_id = ? AND id = ?", studioID, trainerID).
		Count(&n).Error
	return n > 0, err
}
