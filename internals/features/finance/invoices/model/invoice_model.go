package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusPaid   = "paid"
	StatusVoid   = "void"
	StatusFailed = "failed"
)

type InvoiceModel struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID          uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	ClientID          *uuid.UUID `gorm:"column:client_id;type:uuid" json:"client_id"`
	EnrollmentID      *uuid.UUID `gorm:"column:enrollment_id;type:uuid" json:"enrollment_id"`
	ParticipantID     *uuid.UUID `gorm:"column:participant_id;type:uuid" json:"participant_id"`
	Number            string     `gorm:"column:number;not null" json:"number"`
	Amount            float64    `gorm:"column:amount;type:numeric(10,2);not null" json:"amount"`
	AmountPaid        float64    `gorm:"column:amount_paid;type:numeric(10,2);not null" json:"amount_paid"`
	Currency          string     `gorm:"column:currency;not null;default:usd" json:"currency"`
	Description       *string    `gorm:"column:description" json:"description"`
	Status            string     `gorm:"column:status;not null;default:open" json:"status"`
	Provider          *string    `gorm:"column:provider" json:"provider"`
	StripeInvoiceID   *string    `gorm:"column:stripe_invoice_id" json:"stripe_invoice_id"`
	CheckoutSessionID *string    `gorm:"column:checkout_session_id" json:"checkout_session_id"`
	CheckoutURL       *string    `gorm:"column:checkout_url" json:"checkout_url"`
	DueDate           *time.Time `gorm:"column:due_date;type:date" json:"due_date"`
	PaidAt            *time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InvoiceModel) TableName() string { return "invoices" }

// Payable reports whether a checkout may be opened for the invoice.
func (m InvoiceModel) Payable() bool {
	return m.Status == StatusOpen || m.Status == StatusDraft || m.Status == StatusFailed
}
