package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studiofit_backend/internals/features/finance/invoices/model"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

type CreateInvoiceRequest struct {
	ClientID     string  `json:"client_id" validate:"required,uuid"`
	Amount       float64 `json:"amount" validate:"gt=0"`
	Currency     string  `json:"currency" validate:"omitempty,len=3,alpha"`
	Description  string  `json:"description" validate:"omitempty,max=500"`
	DueDate      string  `json:"due_date" validate:"omitempty,ymd"`
	EnrollmentID string  `json:"enrollment_id" validate:"omitempty,uuid"`
}

func (r CreateInvoiceRequest) ToModel(studioID uuid.UUID) (*model.InvoiceModel, error) {
	clientID := uuid.MustParse(r.ClientID)
	m := &model.InvoiceModel{
		StudioID:    studioID,
		ClientID:    &clientID,
		Amount:      r.Amount,
		Currency:    strings.ToLower(r.Currency),
		Description: helper.StrPtr(strings.TrimSpace(r.Description)),
		Status:      model.StatusOpen,
	}
	if m.Currency == "" {
		m.Currency = "usd"
	}
	if r.EnrollmentID != "" {
		id := uuid.MustParse(r.EnrollmentID)
		m.EnrollmentID = &id
	}
	due, err := dbtime.ParseDatePtr(r.DueDate)
	if err != nil {
		return nil, helper.NewFieldError("due_date", "must be YYYY-MM-DD")
	}
	m.DueDate = due
	return m, nil
}

// NewNumber is the human invoice number; Midtrans uses it as order id.
func NewNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

type ListInvoiceQuery struct {
	Status   string
	ClientID *uuid.UUID
}

type CheckoutResponse struct {
	InvoiceID   uuid.UUID `json:"invoice_id"`
	Provider    string    `json:"provider"`
	CheckoutURL string    `json:"checkout_url"`
}
