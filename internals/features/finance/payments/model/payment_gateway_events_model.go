package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GatewayEventStatus string

const (
	GatewayEventReceived   GatewayEventStatus = "received"
	GatewayEventProcessing GatewayEventStatus = "processing"
	GatewayEventSuccess    GatewayEventStatus = "success"
	GatewayEventFailed     GatewayEventStatus = "failed"
	GatewayEventIgnored    GatewayEventStatus = "ignored"
)

// ClaimStaleAfter is how long a processing row is left to its holder before another delivery may take it.
const ClaimStaleAfter = 5 * time.Minute

// Final statuses are never reprocessed.
func (s GatewayEventStatus) Final() bool {
	return s == GatewayEventSuccess || s == GatewayEventIgnored
}

// PaymentGatewayEventModel is one webhook delivery, unique per (provider, external id).
type PaymentGatewayEventModel struct {
	GatewayEventID         uuid.UUID          `gorm:"column:gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"gateway_event_id"`
	GatewayEventStudioID   *uuid.UUID         `gorm:"column:gateway_event_studio_id;type:uuid" json:"gateway_event_studio_id"`
	GatewayEventInvoiceID  *uuid.UUID         `gorm:"column:gateway_event_invoice_id;type:uuid" json:"gateway_event_invoice_id"`
	GatewayEventProvider   string             `gorm:"column:gateway_event_provider;not null" json:"gateway_event_provider"`
	GatewayEventExternalID string             `gorm:"column:gateway_event_external_id;not null" json:"gateway_event_external_id"`
	GatewayEventType       string             `gorm:"column:gateway_event_type;not null" json:"gateway_event_type"`
	GatewayEventPayload    datatypes.JSON     `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload"`
	GatewayEventStatus     GatewayEventStatus `gorm:"column:gateway_event_status;not null;default:received" json:"gateway_event_status"`
	GatewayEventError      *string            `gorm:"column:gateway_event_error" json:"gateway_event_error"`
	GatewayEventTryCount   int                `gorm:"column:gateway_event_try_count;not null" json:"gateway_event_try_count"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null;default:now()" json:"gateway_event_received_at"`
	GatewayEventClaimedAt   *time.Time `gorm:"column:gateway_event_claimed_at" json:"gateway_event_claimed_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at"`
}

// Claimable mirrors the claim predicate in the repository.
func (m PaymentGatewayEventModel) Claimable(now time.Time) bool {
	switch m.GatewayEventStatus {
	case GatewayEventSuccess, GatewayEventIgnored:
		return false
	case GatewayEventProcessing:
		return m.GatewayEventClaimedAt == nil || !m.GatewayEventClaimedAt.After(now.Add(-ClaimStaleAfter))
	}
	return true
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}
