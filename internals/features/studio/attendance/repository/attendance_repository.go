package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiofit_backend/internals/features/studio/attendance/dto"
	"studiofit_backend/internals/features/studio/attendance/model"
	helper "studiofit_backend/internals/helpers"
)

var ErrUnknownRefs = errors.New("class or client not found in this studio")

type Repository interface {
	// Upsert writes all rows in one INSERT .. ON CONFLICT statement.
	Upsert(ctx context.Context, studioID uuid.UUID, rows []model.AttendanceModel) error
	List(ctx context.Context, studioID uuid.UUID, q dto.ListQuery, p helper.Paging) ([]model.AttendanceModel, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// UpsertClause re-marks an existing (class, client, date) row instead of failing.
func UpsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}, {Name: "client_id"}, {Name: "attendance_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "marked_by", "updated_at"}),
	}
}

func (r *gormRepository) Upsert(ctx context.Context, studioID uuid.UUID, rows []model.AttendanceModel) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRefs(tx, studioID, rows); err != nil {
			return err
		}
		return tx.Clauses(UpsertClause()).Create(&rows).Error
	})
}

func checkRefs(tx *gorm.DB, studioID uuid.UUID, rows []model.AttendanceModel) error {
	classIDs := map[uuid.UUID]struct{}{}
	clientIDs := map[uuid.UUID]struct{}{}
	for _, r := range rows {
		classIDs[r.ClassID] = struct{}{}
		clientIDs[r.ClientID] = struct{}{}
	}
	for table, ids := range map[string]map[uuid.UUID]struct{}{"classes": classIDs, "clients": clientIDs} {
		list := make([]uuid.UUID, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		var n int64
		if err := tx.Table(table).Where("studio_id = ? AND id IN ?", studioID, list).Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(list) {
			return ErrUnknownRefs
		}
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, q dto.ListQuery, p helper.Paging) ([]model.AttendanceModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.AttendanceModel{}).Where("studio_id = ?", studioID)
	if q.ClassID != nil {
		tx = tx.Where("class_id = ?", *q.ClassID)
	}
	if q.ClientID != nil {
		tx = tx.Where("client_id = ?", *q.ClientID)
	}
	if q.Date != nil {
		tx = tx.Where("attendance_date = ?", *q.Date)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.AttendanceModel
	err := tx.Order("attendance_date DESC, created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error
	return out, total, err
}
