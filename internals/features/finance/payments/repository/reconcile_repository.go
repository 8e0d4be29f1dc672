package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	invoiceModel "studiofit_backend/internals/features/finance/invoices/model"
	"studiofit_backend/internals/features/finance/payments/model"
	"studiofit_backend/internals/features/finance/payments/provider"
)

// Payer is who a settled payment belongs to; ClientID is nil for guests.
type Payer struct {
	StudioID uuid.UUID
	ClientID *uuid.UUID
}

type Repository interface {
	// Receive records the delivery and claims it for processing.
	// claimed is false when the event already finished (success or ignored)
	// or another delivery claimed it less than model.ClaimStaleAfter ago.
	Receive(ctx context.Context, ev provider.Event) (row *model.PaymentGatewayEventModel, claimed bool, err error)
	Finish(ctx context.Context, id uuid.UUID, status model.GatewayEventStatus, errMsg string, studioID, invoiceID *uuid.UUID) error

	// FindInvoice looks up by stripe invoice id, then metadata invoice_id, then invoice number.
	FindInvoice(ctx context.Context, ev provider.Event) (*invoiceModel.InvoiceModel, error)
	SettleInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel, stripeInvoiceID string, amount float64, now time.Time) error
	FailInvoice(ctx context.Context, invoiceID uuid.UUID) error
	SettleEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*Payer, error)
	SettleParticipant(ctx context.Context, participantID uuid.UUID) (*Payer, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Receive(ctx context.Context, ev provider.Event) (*model.PaymentGatewayEventModel, bool, error) {
	db := r.db.WithContext(ctx)
	var payload datatypes.JSON
	if len(ev.Raw) > 0 {
		payload = datatypes.JSON(ev.Raw)
	}
	if err := db.Exec(`
		INSERT INTO payment_gateway_events
			(gateway_event_provider, gateway_event_external_id, gateway_event_type, gateway_event_payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (gateway_event_provider, gateway_event_external_id) DO NOTHING`,
		ev.Provider, ev.EventID, ev.Type, payload).Error; err != nil {
		return nil, false, err
	}

	now := time.Now()
	var claimed []model.PaymentGatewayEventModel
	if err := db.Raw(`
		UPDATE payment_gateway_events
		   SET gateway_event_status = ?, gateway_event_claimed_at = ?, gateway_event_try_count = gateway_event_try_count + 1
		 WHERE gateway_event_provider = ? AND gateway_event_external_id = ?
		   AND (gateway_event_status IN (?, ?)
		        OR (gateway_event_status = ? AND (gateway_event_claimed_at IS NULL OR gateway_event_claimed_at <= ?)))
		RETURNING *`,
		model.GatewayEventProcessing, now, ev.Provider, ev.EventID,
		model.GatewayEventReceived, model.GatewayEventFailed,
		model.GatewayEventProcessing, now.Add(-model.ClaimStaleAfter)).
		Scan(&claimed).Error; err != nil {
		return nil, false, err
	}
	if len(claimed) > 0 {
		return &claimed[0], true, nil
	}

	var done model.PaymentGatewayEventModel
	err := db.Where("gateway_event_provider = ? AND gateway_event_external_id = ?", ev.Provider, ev.EventID).
		First(&done).Error
	return &done, false, err
}

func (r *gormRepository) Finish(ctx context.Context, id uuid.UUID, status model.GatewayEventStatus, errMsg string, studioID, invoiceID *uuid.UUID) error {
	updates := map[string]any{
		"gateway_event_status":       status,
		"gateway_event_processed_at": time.Now(),
		"gateway_event_error":        nil,
	}
	if errMsg != "" {
		updates["gateway_event_error"] = errMsg
	}
	if studioID != nil {
		updates["gateway_event_studio_id"] = *studioID
	}
	if invoiceID != nil {
		updates["gateway_event_invoice_id"] = *invoiceID
	}
	return r.db.WithContext(ctx).Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_id = ?", id).
		Updates(updates).Error
}

func (r *gormRepository) FindInvoice(ctx context.Context, ev provider.Event) (*invoiceModel.InvoiceModel, error) {
	db := r.db.WithContext(ctx)
	var m invoiceModel.InvoiceModel
	try := func(q string, arg any) (bool, error) {
		res := db.Where(q, arg).Limit(1).Find(&m)
		return res.RowsAffected > 0, res.Error
	}
	if ev.StripeInvoiceID != "" {
		if ok, err := try("stripe_invoice_id = ?", ev.StripeInvoiceID); ok || err != nil {
			return &m, err
		}
	}
	if raw := ev.Metadata[provider.MetaInvoiceID]; raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			if ok, err := try("id = ?", id); ok || err != nil {
				return &m, err
			}
		}
	}
	if ref := strings.TrimSpace(ev.InvoiceRef); ref != "" {
		if ok, err := try("number = ?", ref); ok || err != nil {
			return &m, err
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// SettleInvoice marks the invoice paid and flips linked enrollment and participant rows; a paid invoice is left as is.
func (r *gormRepository) SettleInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel, stripeInvoiceID string, amount float64, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":      invoiceModel.StatusPaid,
			"amount_paid": amount,
			"paid_at":     now,
			"updated_at":  now,
		}
		if stripeInvoiceID != "" && inv.StripeInvoiceID == nil {
			updates["stripe_invoice_id"] = stripeInvoiceID
		}
		if err := tx.Model(&invoiceModel.InvoiceModel{}).
			Where("id = ? AND status <> ?", inv.ID, invoiceModel.StatusPaid).
			Updates(updates).Error; err != nil {
			return err
		}
		if inv.EnrollmentID != nil {
			if err := markEnrollmentPaid(tx, *inv.EnrollmentID); err != nil {
				return err
			}
		}
		if inv.ParticipantID != nil {
			if err := markParticipantPaid(tx, *inv.ParticipantID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRepository) FailInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&invoiceModel.InvoiceModel{}).
		Where("id = ? AND status NOT IN (?, ?)", invoiceID, invoiceModel.StatusPaid, invoiceModel.StatusVoid).
		Updates(map[string]any{"status": invoiceModel.StatusFailed, "updated_at": time.Now()}).Error
}

func (r *gormRepository) SettleEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*Payer, error) {
	var p Payer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("class_enrollments").
			Select("studio_id, client_id").
			Where("id = ?", enrollmentID).
			Take(&p).Error; err != nil {
			return err
		}
		return markEnrollmentPaid(tx, enrollmentID)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) SettleParticipant(ctx context.Context, participantID uuid.UUID) (*Payer, error) {
	var p Payer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("community_event_participants").
			Select("studio_id, client_id").
			Where("id = ?", participantID).
			Take(&p).Error; err != nil {
			return err
		}
		return markParticipantPaid(tx, participantID)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func markEnrollmentPaid(tx *gorm.DB, id uuid.UUID) error {
	return tx.Table("class_enrollments").
		Where("id = ?", id).
		Updates(map[string]any{"payment_status": "paid", "updated_at": time.Now()}).Error
}

// Pending participants already hold their seat, so payment only flips the status.
func markParticipantPaid(tx *gorm.DB, id uuid.UUID) error {
	return tx.Table("community_event_participants").
		Where("id = ? AND status <> ?", id, "cancelled").
		Updates(map[string]any{"status": "registered", "payment_status": "paid", "updated_at": time.Now()}).Error
}
