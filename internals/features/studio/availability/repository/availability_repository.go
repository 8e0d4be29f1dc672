package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/availability/model"
	"studiofit_backend/internals/helpers/dbtime"
)

var ErrOverlap = errors.New("availability overlaps an existing slot")

type ListQuery struct {
	TrainerID *uuid.UUID
	DayOfWeek *int16
}

type Repository interface {
	List(ctx context.Context, studioID uuid.UUID, q ListQuery) ([]model.AvailabilityModel, error)
	Find(ctx context.Context, studioID, id uuid.UUID) (*model.AvailabilityModel, error)
	// Create and Save reject a row that overlaps another slot of the same trainer and day.
	Create(ctx context.Context, m *model.AvailabilityModel) error
	Save(ctx context.Context, merged model.AvailabilityModel, updates map[string]any) error
	Delete(ctx context.Context, studioID, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, q ListQuery) ([]model.AvailabilityModel, error) {
	tx := r.db.WithContext(ctx).Where("studio_id = ?", studioID)
	if q.TrainerID != nil {
		tx = tx.Where("trainer_id = ?", *q.TrainerID)
	}
	if q.DayOfWeek != nil {
		tx = tx.Where("day_of_week = ?", *q.DayOfWeek)
	}
	var out []model.AvailabilityModel
	err := tx.Order("day_of_week ASC, specific_date ASC NULLS FIRST, start_time ASC").Find(&out).Error
	return out, err
}

func (r *gormRepository) Find(ctx context.Context, studioID, id uuid.UUID) (*model.AvailabilityModel, error) {
	var m model.AvailabilityModel
	if err := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) Create(ctx context.Context, m *model.AvailabilityModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkOverlap(tx, *m); err != nil {
			return err
		}
		return tx.Create(m).Error
	})
}

func (r *gormRepository) Save(ctx context.Context, merged model.AvailabilityModel, updates map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkOverlap(tx, merged); err != nil {
			return err
		}
		res := tx.Model(&model.AvailabilityModel{}).
			Where("studio_id = ? AND id = ?", merged.StudioID, merged.ID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *gormRepository) Delete(ctx context.Context, studioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).Delete(&model.AvailabilityModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// checkOverlap locks the trainer's rows for that weekday so two concurrent writes can't both pass.
func checkOverlap(tx *gorm.DB, m model.AvailabilityModel) error {
	var rows []model.AvailabilityModel
	if err := tx.Raw(`
		SELECT * FROM trainer_availability
		 WHERE trainer_id = ? AND day_of_week = ? AND id <> ?
		 FOR UPDATE`, m.TrainerID, m.DayOfWeek, m.ID).
		Scan(&rows).Error; err != nil {
		return err
	}
	return FirstOverlap(m, rows)
}

// FirstOverlap returns ErrOverlap if m intersects any row competing for the same slot day.
func FirstOverlap(m model.AvailabilityModel, rows []model.AvailabilityModel) error {
	for _, o := range rows {
		if o.ID == m.ID || !m.SameSlotDay(o) {
			continue
		}
		if dbtime.Overlaps(m.StartTime, m.EndTime, o.StartTime, o.EndTime) {
			return ErrOverlap
		}
	}
	return nil
}
