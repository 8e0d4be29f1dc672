package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/finance/invoices/dto"
	"studiofit_backend/internals/features/finance/invoices/model"
	helper "studiofit_backend/internals/helpers"
)

// Contact is who the checkout page is addressed to.
type Contact struct {
	Name  string
	Email string
}

type Repository interface {
	List(ctx context.Context, studioID uuid.UUID, q dto.ListInvoiceQuery, p helper.Paging) ([]model.InvoiceModel, int64, error)
	Find(ctx context.Context, studioID, id uuid.UUID) (*model.InvoiceModel, error)
	Create(ctx context.Context, m *model.InvoiceModel) error
	// ClientOwns checks the client belongs to the studio and, when given, owns the enrollment.
	ClientOwns(ctx context.Context, studioID, clientID uuid.UUID, enrollmentID *uuid.UUID) (bool, error)
	Contact(ctx context.Context, clientID uuid.UUID) (Contact, error)
	SaveCheckout(ctx context.Context, id uuid.UUID, provider, sessionID, url string) error
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context, studioID uuid.UUID, q dto.ListInvoiceQuery, p helper.Paging) ([]model.InvoiceModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.InvoiceModel{}).Where("studio_id = ?", studioID)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.ClientID != nil {
		tx = tx.Where("client_id = ?", *q.ClientID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.InvoiceModel
	err := tx.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error
	return rows, total, err
}

func (r *gormRepository) Find(ctx context.Context, studioID, id uuid.UUID) (*model.InvoiceModel, error) {
	var m model.InvoiceModel
	if err := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) Create(ctx context.Context, m *model.InvoiceModel) error {
	var err error
	for i := 0; i < 3; i++ {
		m.Number = dto.NewNumber(time.Now())
		if err = r.db.WithContext(ctx).Create(m).Error; !helper.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}

func (r *gormRepository) ClientOwns(ctx context.Context, studioID, clientID uuid.UUID, enrollmentID *uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Table("clients").
		Where("studio_id = ? AND id = ?", studioID, clientID).
		Count(&n).Error; err != nil || n == 0 {
		return false, err
	}
	if enrollmentID == nil {
		return true, nil
	}
	err := r.db.WithContext(ctx).Table("class_enrollments").
		Where("studio_id = ? AND id = ? AND client_id = ?", studioID, *enrollmentID, clientID).
		Count(&n).Error
	return n > 0, err
}

func (r *gormRepository) Contact(ctx context.Context, clientID uuid.UUID) (Contact, error) {
	var c Contact
	err := r.db.WithContext(ctx).Table("clients").
		Select("TRIM(first_name || ' ' || last_name) AS name, email").
		Where("id = ?", clientID).
		Scan(&c).Error
	return c, err
}

func (r *gormRepository) SaveCheckout(ctx context.Context, id uuid.UUID, provider, sessionID, url string) error {
	return r.db.WithContext(ctx).Model(&model.InvoiceModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"provider":            provider,
			"checkout_session_id": sessionID,
			"checkout_url":        url,
			"status":              gorm.Expr("CASE WHEN status = 'failed' THEN 'open' ELSE status END"),
		}).Error
}
