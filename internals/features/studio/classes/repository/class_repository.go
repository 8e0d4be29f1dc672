package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/classes/dto"
	"studiofit_backend/internals/features/studio/classes/model"
	helper "studiofit_backend/internals/helpers"
)

type Repository interface {
	List(ctx context.Context, studioID uuid.UUID, q dto.ListClassQuery, p helper.Paging) ([]model.ClassModel, int64, error)
	Find(ctx context.Context, studioID, id uuid.UUID) (*model.ClassModel, error)
	Create(ctx context.Context, m *model.ClassModel) error
	Update(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, studioID, id uuid.UUID) error
	Roster(ctx context.Context, studioID, classID uuid.UUID, date time.Time) ([]model.RosterEntry, error)
	TrainerExists(ctx context.Context, studioID, trainerID uuid.UUID) (bool, error)
	StudioTimezone(ctx context.Context, studioID uuid.UUID) (string, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, q dto.ListClassQuery, p helper.Paging) ([]model.ClassModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.ClassModel{}).Where("studio_id = ?", studioID)
	if q.TrainerID != nil {
		tx = tx.Where("trainer_id = ?", *q.TrainerID)
	}
	if q.Date != nil {
		// dated classes on that day, plus recurring ones on that weekday
		tx = tx.Where("class_date = ? OR (class_date IS NULL AND day_of_week = ?)", q.Date.Format("2006-01-02"), int(q.Date.Weekday()))
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.ClassModel
	err := tx.Order("class_date ASC NULLS LAST, start_time ASC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error
	return out, total, err
}

func (r *gormRepository) Find(ctx context.Context, studioID, id uuid.UUID) (*model.ClassModel, error) {
	var m model.ClassModel
	if err := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) Create(ctx context.Context, m *model.ClassModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) Update(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.ClassModel{}).
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
	res := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).Delete(&model.ClassModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) Roster(ctx context.Context, studioID, classID uuid.UUID, date time.Time) ([]model.RosterEntry, error) {
	var out []model.RosterEntry
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.id AS enrollment_id, c.id AS client_id, c.first_name, c.last_name, c.email,
		       e.status AS enrollment_status, e.payment_status,
		       a.status AS attendance, a.notes AS attendance_notes
		  FROM class_enrollments e
		  JOIN clients c ON c.id = e.client_id
		  LEFT JOIN attendance a
		         ON a.class_id = e.class_id AND a.client_id = e.client_id AND a.attendance_date = ?
		 WHERE e.studio_id = ? AND e.class_id = ? AND e.status <> 'cancelled'
		 ORDER BY c.first_name, c.last_name`,
		date.Format("2006-01-02"), studioID, classID).
		Scan(&out).Error
	return out, err
}

func (r *gormRepository) TrainerExists(ctx context.Context, studioID, trainerID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("trainers").
		Where("studio_id = ? AND id = ?", studioID, trainerID).
		Count(&n).Error
	return n > 0, err
}

func (r *gormRepository) StudioTimezone(ctx context.Context, studioID uuid.UUID) (string, error) {
	var tz []string
	err := r.db.WithContext(ctx).Table("studios").Where("id = ?", studioID).Limit(1).Pluck("timezone", &tz).Error
	if err != nil || len(tz) == 0 {
		return "", err
	}
	return tz[0], nil
}
