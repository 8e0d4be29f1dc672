package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/training/dto"
	"studiofit_backend/internals/features/studio/training/model"
	helper "studiofit_backend/internals/helpers"
)

// Trainer scopes here are applied through the owning client's trainer_id.
type Repository interface {
	ListInstructions(ctx context.Context, studioID uuid.UUID, q dto.InstructionQuery, p helper.Paging) ([]model.InstructionModel, int64, error)
	FindInstruction(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) (*model.InstructionModel, error)
	CreateInstruction(ctx context.Context, m *model.InstructionModel) error
	UpdateInstruction(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID, updates map[string]any) error
	DeleteInstruction(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) error

	// ClientVisible reports whether the client exists in the studio and, with a scope, belongs to that trainer.
	ClientVisible(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, clientID uuid.UUID) (bool, error)

	RecordSet(ctx context.Context, m *model.SetProgressModel) error
	ListProgress(ctx context.Context, studioID uuid.UUID, q dto.ProgressQuery, p helper.Paging) ([]model.SetProgressModel, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func scopeByClient(tx *gorm.DB, table string, scope *uuid.UUID) *gorm.DB {
	if scope == nil {
		return tx
	}
	return tx.Where(table+".client_id IN (SELECT id FROM clients WHERE trainer_id = ?)", *scope)
}

func (r *gormRepository) instructions(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.InstructionModel{}).Where("training_instructions.studio_id = ?", studioID)
	return scopeByClient(tx, "training_instructions", scope)
}

func (r *gormRepository) ListInstructions(ctx context.Context, studioID uuid.UUID, q dto.InstructionQuery, p helper.Paging) ([]model.InstructionModel, int64, error) {
	tx := r.instructions(ctx, studioID, q.TrainerScope)
	if q.ClientID != nil {
		tx = tx.Where("client_id = ?", *q.ClientID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.InstructionModel
	err := tx.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error
	return out, total, err
}

func (r *gormRepository) FindInstruction(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) (*model.InstructionModel, error) {
	var m model.InstructionModel
	if err := r.instructions(ctx, studioID, scope).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) CreateInstruction(ctx context.Context, m *model.InstructionModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) UpdateInstruction(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID, updates map[string]any) error {
	res := r.instructions(ctx, studioID, scope).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) DeleteInstruction(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) error {
	res := r.instructions(ctx, studioID, scope).Where("id = ?", id).Delete(&model.InstructionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) ClientVisible(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, clientID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Table("clients").Where("studio_id = ? AND id = ?", studioID, clientID)
	if scope != nil {
		tx = tx.Where("trainer_id = ?", *scope)
	}
	var n int64
	err := tx.Count(&n).Error
	return n > 0, err
}

// RecordSet refuses an instruction that belongs to a different client.
func (r *gormRepository) RecordSet(ctx context.Context, m *model.SetProgressModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.InstructionID != nil {
			var n int64
			if err := tx.Model(&model.InstructionModel{}).
				Where("id = ? AND client_id = ? AND studio_id = ?", *m.InstructionID, m.ClientID, m.StudioID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return helper.NewFieldError("instruction_id", "instruction not found for this client")
			}
		}
		return tx.Create(m).Error
	})
}

func (r *gormRepository) ListProgress(ctx context.Context, studioID uuid.UUID, q dto.ProgressQuery, p helper.Paging) ([]model.SetProgressModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.SetProgressModel{}).Where("set_progress.studio_id = ?", studioID)
	tx = scopeByClient(tx, "set_progress", q.TrainerScope)
	if q.ClientID != nil {
		tx = tx.Where("client_id = ?", *q.ClientID)
	}
	if q.InstructionID != nil {
		tx = tx.Where("instruction_id = ?", *q.InstructionID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.SetProgressModel
	err := tx.Order("completed_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error
	return out, total, err
}
