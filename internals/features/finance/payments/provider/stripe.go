package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeCheckout struct {
	api *client.API
}

func NewStripeCheckout(secretKey string) *StripeCheckout {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCheckout{api: api}
}

func (s *StripeCheckout) Name() string { return Stripe }

func (s *StripeCheckout) Create(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(MinorUnits(req.Amount, currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(truncate(req.Description, 250)),
				},
			},
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}
	return &CheckoutResult{Provider: Stripe, SessionID: sess.ID, URL: sess.URL}, nil
}

// ParseStripe verifies the Stripe-Signature header and flattens the event.
func ParseStripe(payload []byte, sigHeader, secret string) (*Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	out := &Event{
		Provider: Stripe,
		EventID:  ev.ID,
		Type:     string(ev.Type),
		Metadata: map[string]string{},
		Raw:      payload,
	}
	if ev.Data == nil {
		return out, nil
	}

	switch out.Type {
	case TypeInvoicePaid, TypeInvoiceFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		out.StripeInvoiceID = inv.ID
		out.AmountPaid = MajorUnits(inv.AmountPaid, string(inv.Currency))
		copyMeta(out.Metadata, inv.Metadata)
	case TypeCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		out.SessionID = sess.ID
		out.InvoiceRef = sess.ClientReferenceID
		out.AmountPaid = MajorUnits(sess.AmountTotal, string(sess.Currency))
		copyMeta(out.Metadata, sess.Metadata)
	case TypePaymentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.AmountPaid = MajorUnits(pi.AmountReceived, string(pi.Currency))
		copyMeta(out.Metadata, pi.Metadata)
	}
	return out, nil
}

func copyMeta(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// truncate keeps at most n runes.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
