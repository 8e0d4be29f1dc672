package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/finance/payments/model"
	helper "studiofit_backend/internals/helpers"
)

type EventFilter struct {
	Provider string
	Status   string
	Q        string // external id or type, ILIKE
	Start    *time.Time
	End      *time.Time
}

// EventLog is the read side of payment_gateway_events for the admin UI.
type EventLog interface {
	List(ctx context.Context, studioID uuid.UUID, f EventFilter, p helper.Paging) ([]model.PaymentGatewayEventModel, int64, error)
	Find(ctx context.Context, studioID, id uuid.UUID) (*model.PaymentGatewayEventModel, error)
}

type gormEventLog struct {
	db *gorm.DB
}

func NewEventLog(db *gorm.DB) EventLog {
	return &gormEventLog{db: db}
}

func (r *gormEventLog) List(ctx context.Context, studioID uuid.UUID, f EventFilter, p helper.Paging) ([]model.PaymentGatewayEventModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_studio_id = ?", studioID)
	if f.Provider != "" {
		q = q.Where("gateway_event_provider = ?", strings.ToLower(f.Provider))
	}
	if f.Status != "" {
		q = q.Where("gateway_event_status = ?", strings.ToLower(f.Status))
	}
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Where("gateway_event_external_id ILIKE ? OR gateway_event_type ILIKE ?", like, like)
	}
	if f.Start != nil {
		q = q.Where("gateway_event_received_at >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("gateway_event_received_at < ?", *f.End)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.PaymentGatewayEventModel
	err := q.Order("gateway_event_received_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *gormEventLog) Find(ctx context.Context, studioID, id uuid.UUID) (*model.PaymentGatewayEventModel, error) {
	var m model.PaymentGatewayEventModel
	err := r.db.WithContext(ctx).
		First(&m, "gateway_event_id = ? AND gateway_event_studio_id = ?", id, studioID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
