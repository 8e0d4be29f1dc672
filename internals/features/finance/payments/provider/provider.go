// Package provider hides Stripe and Midtrans behind one checkout call and one event shape.
package provider

import (
	"context"
	"errors"
	"math"
	"strings"
)

const (
	Stripe   = "stripe"
	Midtrans = "midtrans"
)

// Provider-neutral event types. Stripe types pass through unchanged.
const (
	TypeInvoicePaid       = "invoice.paid"
	TypeInvoiceFailed     = "invoice.payment_failed"
	TypeCheckoutCompleted = "checkout.session.completed"
	TypePaymentSucceeded  = "payment_intent.succeeded"
	TypePaymentFailed     = "payment.failed"
	TypePaymentPending    = "payment.pending"
)

// Metadata keys set on checkout and read back from webhooks.
const (
	MetaInvoiceID     = "invoice_id"
	MetaEnrollmentID  = "enrollment_id"
	MetaParticipantID = "participant_id"
)

var (
	ErrDisabled         = errors.New("payment provider not configured")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Event is what reconciliation works on, whatever the gateway.
type Event struct {
	Provider        string
	EventID         string
	Type            string
	InvoiceRef      string // invoice number (Midtrans order_id)
	StripeInvoiceID string
	SessionID       string
	Metadata        map[string]string
	AmountPaid      float64 // major units
	Raw             []byte
}

type CheckoutRequest struct {
	Reference   string
	Amount      float64
	Currency    string
	Description string
	Email       string
	Name        string
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

type CheckoutResult struct {
	Provider  string `json:"provider"`
	SessionID string `json:"session_id"`
	URL       string `json:"checkout_url"`
}

type Checkout interface {
	Name() string
	Create(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

// Disabled rejects every checkout; used when no gateway key is configured.
type Disabled struct{}

func (Disabled) Name() string { return "" }

func (Disabled) Create(context.Context, CheckoutRequest) (*CheckoutResult, error) {
	return nil, ErrDisabled
}

var zeroDecimal = map[string]bool{"idr": true, "jpy": true, "krw": true, "vnd": true, "clp": true}

// MinorUnits converts a major-unit amount for the gateway.
func MinorUnits(amount float64, currency string) int64 {
	if zeroDecimal[strings.ToLower(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

// MajorUnits is the inverse of MinorUnits.
func MajorUnits(minor int64, currency string) float64 {
	if zeroDecimal[strings.ToLower(currency)] {
		return float64(minor)
	}
	return float64(minor) / 100
}
