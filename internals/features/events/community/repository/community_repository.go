package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/events/community/model"
	helper "studiofit_backend/internals/helpers"
)

var (
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered")
)

const slugMaxLen = 120

// Registrant is what a signed-in user brings to a registration.
type Registrant struct {
	Name     string
	Email    string
	ClientID *uuid.UUID
}

type Repository interface {
	ListPublic(ctx context.Context, studioSlug string, p helper.Paging) ([]model.EventModel, int64, error)
	List(ctx context.Context, studioID uuid.UUID, p helper.Paging) ([]model.EventModel, int64, error)
	Find(ctx context.Context, studioID, id uuid.UUID) (*model.EventModel, error)
	// FindActive looks across studios; registration is addressed by event id alone.
	FindActive(ctx context.Context, id uuid.UUID) (*model.EventModel, error)
	Create(ctx context.Context, m *model.EventModel) error
	Update(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) (*model.EventModel, error)
	Delete(ctx context.Context, studioID, id uuid.UUID) error

	Participants(ctx context.Context, studioID, eventID uuid.UUID) ([]model.ParticipantModel, error)
	Registrant(ctx context.Context, studioID, userID uuid.UUID) (Registrant, error)
	FindParticipant(ctx context.Context, eventID, userID uuid.UUID) (*model.ParticipantModel, error)
	// Register takes a seat with a conditional count increment and inserts the participant in one tx.
	Register(ctx context.Context, p *model.ParticipantModel) error
	SetCheckout(ctx context.Context, participantID uuid.UUID, sessionID string) error
	// Release drops a pending participant and gives the seat back so the user can try again.
	Release(ctx context.Context, participantID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListPublic(ctx context.Context, studioSlug string, p helper.Paging) ([]model.EventModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.EventModel{}).
		Joins("JOIN studios s ON s.id = community_events.studio_id").
		Where("LOWER(s.slug) = LOWER(?) AND community_events.is_active", studioSlug)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.EventModel
	err := q.Select("community_events.*").
		Order("community_events.starts_at ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, p helper.Paging) ([]model.EventModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.EventModel{}).Where("studio_id = ?", studioID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.EventModel
	err := q.Order("starts_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error
	return rows, total, err
}

func (r *gormRepository) Find(ctx context.Context, studioID, id uuid.UUID) (*model.EventModel, error) {
	var m model.EventModel
	if err := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) FindActive(ctx context.Context, id uuid.UUID) (*model.EventModel, error) {
	var m model.EventModel
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) Create(ctx context.Context, m *model.EventModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "community_events", "slug",
			helper.Slugify(m.Title, slugMaxLen),
			func(q *gorm.DB) *gorm.DB { return q.Where("studio_id = ?", m.StudioID) },
			slugMaxLen)
		if err != nil {
			return err
		}
		m.Slug = slug
		return tx.Create(m).Error
	})
}

func (r *gormRepository) Update(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) (*model.EventModel, error) {
	res := r.db.WithContext(ctx).Model(&model.EventModel{}).
		Where("studio_id = ? AND id = ?", studioID, id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Find(ctx, studioID, id)
}

func (r *gormRepository) Delete(ctx context.Context, studioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).Delete(&model.EventModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) Participants(ctx context.Context, studioID, eventID uuid.UUID) ([]model.ParticipantModel, error) {
	var rows []model.ParticipantModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND event_id = ?", studioID, eventID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) Registrant(ctx context.Context, studioID, userID uuid.UUID) (Registrant, error) {
	var out Registrant
	if err := r.db.WithContext(ctx).Table("users").
		Select("full_name AS name, email").
		Where("id = ?", userID).
		Take(&out).Error; err != nil {
		return out, err
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Table("clients").
		Where("studio_id = ? AND user_id = ?", studioID, userID).
		Order("created_at ASC").Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return out, err
	}
	if len(ids) > 0 {
		out.ClientID = &ids[0]
	}
	return out, nil
}

func (r *gormRepository) FindParticipant(ctx context.Context, eventID, userID uuid.UUID) (*model.ParticipantModel, error) {
	var p model.ParticipantModel
	if err := r.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) Register(ctx context.Context, p *model.ParticipantModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.UserID != nil {
			var n int64
			if err := tx.Model(&model.ParticipantModel{}).
				Where("event_id = ? AND user_id = ?", p.EventID, *p.UserID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrAlreadyRegistered
			}
		}
		res := tx.Model(&model.EventModel{}).
			Where("id = ? AND is_active AND (capacity IS NULL OR registered_count < capacity)", p.EventID).
			Update("registered_count", gorm.Expr("registered_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEventFull
		}
		if err := tx.Create(p).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
}

func (r *gormRepository) SetCheckout(ctx context.Context, participantID uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&model.ParticipantModel{}).
		Where("id = ?", participantID).
		Update("checkout_session_id", sessionID).Error
}

func (r *gormRepository) Release(ctx context.Context, participantID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.ParticipantModel
		if err := tx.Where("id = ? AND status = ?", participantID, model.ParticipantPending).First(&p).Error; err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return tx.Model(&model.EventModel{}).
			Where("id = ?", p.EventID).
			Update("registered_count", gorm.Expr("GREATEST(registered_count - 1, 0)")).Error
	})
}
