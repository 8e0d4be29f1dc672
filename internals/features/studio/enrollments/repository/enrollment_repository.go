package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiofit_backend/internals/features/studio/enrollments/dto"
	"studiofit_backend/internals/features/studio/enrollments/model"
	helper "studiofit_backend/internals/helpers"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrAlreadyEnrolled = errors.New("client is already enrolled in this class")
	ErrClassFull       = errors.New("class is at full capacity")
)

type Repository interface {
	// Enroll reserves a seat and inserts the enrollment in one transaction.
	Enroll(ctx context.Context, studioID, classID, clientID uuid.UUID, now time.Time) (*model.EnrollmentModel, error)
	// SetStatus moves an enrollment and keeps classes.current_enrollment in step.
	SetStatus(ctx context.Context, studioID, id uuid.UUID, status string) (*model.EnrollmentModel, error)
	List(ctx context.Context, studioID uuid.UUID, q dto.ListQuery, p helper.Paging) ([]model.EnrollmentView, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

type classRow struct {
	Price  float64
	Status string
}

func (r *gormRepository) Enroll(ctx context.Context, studioID, classID, clientID uuid.UUID, now time.Time) (*model.EnrollmentModel, error) {
	var out *model.EnrollmentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cls classRow
		res := tx.Table("classes").Select("price, status").
			Where("studio_id = ? AND id = ?", studioID, classID).
			Limit(1).Scan(&cls)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || cls.Status != "active" {
			return ErrClassNotFound
		}

		var n int64
		if err := tx.Table("clients").Where("studio_id = ? AND id = ?", studioID, clientID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrClientNotFound
		}

		if err := tx.Model(&model.EnrollmentModel{}).
			Where("class_id = ? AND client_id = ? AND status <> ?", classID, clientID, model.StatusCancelled).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyEnrolled
		}

		if err := reserveSeat(tx, classID); err != nil {
			return err
		}

		e := &model.EnrollmentModel{
			StudioID:      studioID,
			ClassID:       classID,
			ClientID:      clientID,
			Status:        model.StatusActive,
			PaymentStatus: model.PaymentUnpaid,
			EnrolledAt:    now,
		}
		if cls.Price == 0 {
			e.PaymentStatus = model.PaymentPaid
		}
		if err := tx.Create(e).Error; err != nil {
			// lost a race with a concurrent enroll; the seat increment rolls back with us
			if helper.IsUniqueViolation(err) {
				return ErrAlreadyEnrolled
			}
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// reserveSeat is the conditional increment: zero rows means the class is full.
func reserveSeat(tx *gorm.DB, classID uuid.UUID) error {
	res := tx.Exec(`UPDATE classes SET current_enrollment = current_enrollment + 1, updated_at = now()
		WHERE id = ? AND current_enrollment < max_capacity`, classID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrClassFull
	}
	return nil
}

func releaseSeat(tx *gorm.DB, classID uuid.UUID) error {
	return tx.Exec(`UPDATE classes SET current_enrollment = GREATEST(current_enrollment - 1, 0), updated_at = now()
		WHERE id = ?`, classID).Error
}

func (r *gormRepository) SetStatus(ctx context.Context, studioID, id uuid.UUID, status string) (*model.EnrollmentModel, error) {
	var e model.EnrollmentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("studio_id = ? AND id = ?", studioID, id).
			First(&e).Error; err != nil {
			return err
		}
		was, will := model.Occupies(e.Status), model.Occupies(status)
		switch {
		case was && !will:
			if err := releaseSeat(tx, e.ClassID); err != nil {
				return err
			}
		case !was && will:
			if err := reserveSeat(tx, e.ClassID); err != nil {
				return err
			}
		}
		e.Status = status
		if err := tx.Model(&e).Update("status", status).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrAlreadyEnrolled
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, q dto.ListQuery, p helper.Paging) ([]model.EnrollmentView, int64, error) {
	tx := r.db.WithContext(ctx).Table("class_enrollments e").
		Joins("JOIN classes k ON k.id = e.class_id").
		Joins("JOIN clients c ON c.id = e.client_id").
		Where("e.studio_id = ?", studioID)
	if q.ClassID != nil {
		tx = tx.Where("e.class_id = ?", *q.ClassID)
	}
	if q.ClientID != nil {
		tx = tx.Where("e.client_id = ?", *q.ClientID)
	}
	if q.Upcoming {
		tx = tx.Where("e.status <> ? AND (k.class_date IS NULL OR k.class_date >= CURRENT_DATE)", model.StatusCancelled)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.EnrollmentView
	err := tx.Select(`e.*, k.name AS class_name, k.class_date, k.start_time, k.end_time,
			c.first_name AS client_first_name, c.last_name AS client_last_name`).
		Order("k.class_date ASC NULLS LAST, k.start_time ASC").
		Limit(p.Limit).Offset(p.Offset).
		Scan(&out).Error
	return out, total, err
}
