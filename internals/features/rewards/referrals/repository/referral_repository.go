package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiofit_backend/internals/features/rewards/referrals/model"
	helper "studiofit_backend/internals/helpers"
)

var (
	ErrInvalidTransition = errors.New("invalid referral status transition")
	ErrMaxUsesBelowUsage = errors.New("max_uses below current_uses")
)

// Track is one use of a code followed by a pending tracking row.
type Track struct {
	Code           string
	ReferredEmail  string
	ReferredUserID *uuid.UUID
}

type Repository interface {
	ListCodes(ctx context.Context, studioID, userID uuid.UUID) ([]model.ReferralCodeModel, error)
	// CreateCode generates a code when custom is empty.
	CreateCode(ctx context.Context, studioID, userID uuid.UUID, custom string, maxUses *int, expiresAt *time.Time) (*model.ReferralCodeModel, error)
	UpdateCode(ctx context.Context, studioID, userID, id uuid.UUID, isActive *bool, maxUses *int) (*model.ReferralCodeModel, error)
	DeleteCode(ctx context.Context, studioID, userID, id uuid.UUID) error
	FindCode(ctx context.Context, code string) (*model.ReferralCodeModel, error)

	Track(ctx context.Context, t Track) (*model.ReferralTrackingModel, error)
	ListTracking(ctx context.Context, studioID uuid.UUID, referrer *uuid.UUID, p helper.Paging) ([]model.TrackingView, int64, error)
	// Complete returns the referrer's client id in the studio, nil when they have none.
	Complete(ctx context.Context, studioID, id uuid.UUID, points int, now time.Time) (*model.ReferralTrackingModel, *uuid.UUID, error)
	Cancel(ctx context.Context, studioID, id uuid.UUID, now time.Time) (*model.ReferralTrackingModel, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListCodes(ctx context.Context, studioID, userID uuid.UUID) ([]model.ReferralCodeModel, error) {
	var out []model.ReferralCodeModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND user_id = ?", studioID, userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *gormRepository) CreateCode(ctx context.Context, studioID, userID uuid.UUID, custom string, maxUses *int, expiresAt *time.Time) (*model.ReferralCodeModel, error) {
	var rows []model.ReferralCodeModel
	q := r.db.WithContext(ctx)
	if custom == "" {
		q = q.Raw(`SELECT * FROM create_referral_code(?, ?, ?, ?)`, userID, studioID, maxUses, expiresAt)
	} else {
		q = q.Raw(`SELECT * FROM create_custom_referral_code(?, ?, ?, ?, ?)`, userID, studioID, custom, maxUses, expiresAt)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("referral code function returned no row")
	}
	return &rows[0], nil
}

func (r *gormRepository) UpdateCode(ctx context.Context, studioID, userID, id uuid.UUID, isActive *bool, maxUses *int) (*model.ReferralCodeModel, error) {
	var m model.ReferralCodeModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND studio_id = ? AND user_id = ?", id, studioID, userID).
			First(&m).Error; err != nil {
			return err
		}
		updates := map[string]any{"updated_at": time.Now()}
		if isActive != nil {
			updates["is_active"] = *isActive
		}
		if maxUses != nil {
			if *maxUses < m.CurrentUses {
				return ErrMaxUsesBelowUsage
			}
			updates["max_uses"] = *maxUses
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) DeleteCode(ctx context.Context, studioID, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND studio_id = ? AND user_id = ?", id, studioID, userID).
		Delete(&model.ReferralCodeModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) FindCode(ctx context.Context, code string) (*model.ReferralCodeModel, error) {
	var m model.ReferralCodeModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) Track(ctx context.Context, t Track) (*model.ReferralTrackingModel, error) {
	var row model.ReferralTrackingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// raises P0001 when the code cannot be used; the tx rolls the use back if the insert fails
		var used []model.ReferralCodeModel
		if err := tx.Raw(`SELECT * FROM use_referral_code(?)`, t.Code).Scan(&used).Error; err != nil {
			return err
		}
		if len(used) == 0 {
			return gorm.ErrRecordNotFound
		}
		row = model.ReferralTrackingModel{
			StudioID:       used[0].StudioID,
			ReferralCodeID: used[0].ID,
			ReferrerUserID: used[0].UserID,
			ReferredUserID: t.ReferredUserID,
			ReferredEmail:  t.ReferredEmail,
			Status:         model.TrackingPending,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository) ListTracking(ctx context.Context, studioID uuid.UUID, referrer *uuid.UUID, p helper.Paging) ([]model.TrackingView, int64, error) {
	q := r.db.WithContext(ctx).Table("referral_tracking t").
		Joins("JOIN referral_codes c ON c.id = t.referral_code_id").
		Where("t.studio_id = ?", studioID)
	if referrer != nil {
		q = q.Where("t.referrer_user_id = ?", *referrer)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.TrackingView
	err := q.Select("t.*, c.code").
		Order("t.created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&out).Error
	return out, total, err
}

func (r *gormRepository) lockPending(tx *gorm.DB, studioID, id uuid.UUID) (*model.ReferralTrackingModel, error) {
	var m model.ReferralTrackingModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND studio_id = ?", id, studioID).
		First(&m).Error; err != nil {
		return nil, err
	}
	if m.Status != model.TrackingPending {
		return nil, ErrInvalidTransition
	}
	return &m, nil
}

func (r *gormRepository) Complete(ctx context.Context, studioID, id uuid.UUID, points int, now time.Time) (*model.ReferralTrackingModel, *uuid.UUID, error) {
	var (
		m        *model.ReferralTrackingModel
		clientID *uuid.UUID
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = r.lockPending(tx, studioID, id); err != nil {
			return err
		}
		var ids []uuid.UUID
		if err := tx.Table("clients").
			Where("studio_id = ? AND user_id = ?", studioID, m.ReferrerUserID).
			Order("created_at ASC").Limit(1).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		awarded := 0
		if len(ids) > 0 {
			clientID = &ids[0]
			awarded = points
		}
		m.Status = model.TrackingCompleted
		m.CompletedAt = &now
		m.PointsAwarded = awarded
		return tx.Model(m).Updates(map[string]any{
			"status":         m.Status,
			"completed_at":   now,
			"points_awarded": awarded,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return m, clientID, nil
}

func (r *gormRepository) Cancel(ctx context.Context, studioID, id uuid.UUID, now time.Time) (*model.ReferralTrackingModel, error) {
	var m *model.ReferralTrackingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = r.lockPending(tx, studioID, id); err != nil {
			return err
		}
		m.Status = model.TrackingCancelled
		m.CancelledAt = &now
		return tx.Model(m).Updates(map[string]any{"status": m.Status, "cancelled_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
