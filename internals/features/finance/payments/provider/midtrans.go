package provider

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// orderAttemptSep joins a reference and an attempt stamp in a Midtrans order id.
const orderAttemptSep = "~"

type MidtransCheckout struct {
	client snap.Client
	now    func() time.Time
}

func NewMidtransCheckout(serverKey string, production bool) *MidtransCheckout {
	m := &MidtransCheckout{now: time.Now}
	if production {
		m.client.New(serverKey, midtrans.Production)
	} else {
		m.client.New(serverKey, midtrans.Sandbox)
	}
	return m
}

func (m *MidtransCheckout) Name() string { return Midtrans }

// Create opens a snap transaction. Midtrans rejects a reused order id, so every attempt gets its own.
func (m *MidtransCheckout) Create(_ context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	resp, mErr := m.client.CreateTransaction(m.snapRequest(req))
	if mErr != nil {
		return nil, fmt.Errorf("midtrans snap: %w", mErr)
	}
	return &CheckoutResult{Provider: Midtrans, SessionID: resp.Token, URL: resp.RedirectURL}, nil
}

func (m *MidtransCheckout) snapRequest(req CheckoutRequest) *snap.Request {
	gross := MinorUnits(req.Amount, "idr")
	first, last := req.Name, ""
	if i := strings.IndexByte(req.Name, ' '); i > 0 {
		first, last = req.Name[:i], req.Name[i+1:]
	}
	sr := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  MidtransOrderID(req.Reference, m.now()),
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.Reference,
			Price: gross,
			Qty:   1,
			Name:  truncate(req.Description, 50),
		}},
	}
	return sr
}

// MidtransOrderID stamps the reference with the attempt time in base 36.
func MidtransOrderID(ref string, at time.Time) string {
	return ref + orderAttemptSep + strconv.FormatInt(at.UnixMilli(), 36)
}

// MidtransReference strips the attempt stamp from an order id.
func MidtransReference(orderID string) string {
	if i := strings.LastIndex(orderID, orderAttemptSep); i > 0 {
		return orderID[:i]
	}
	return orderID
}

// MidtransNotification is the HTTP notification body.
type MidtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// MidtransSignature is SHA512(order_id + status_code + gross_amount + server_key), hex.
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// ParseMidtrans verifies the signature and maps the transaction status.
func ParseMidtrans(payload []byte, serverKey string) (*Event, error) {
	var n MidtransNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	want := MidtransSignature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	got := strings.ToLower(n.SignatureKey)
	if serverKey == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return nil, ErrInvalidSignature
	}
	amount, _ := strconv.ParseFloat(n.GrossAmount, 64)
	return &Event{
		Provider:   Midtrans,
		EventID:    n.TransactionID + ":" + n.TransactionStatus,
		Type:       midtransType(n.TransactionStatus, n.FraudStatus),
		InvoiceRef: MidtransReference(n.OrderID),
		Metadata:   map[string]string{},
		AmountPaid: amount,
		Raw:        payload,
	}, nil
}

func midtransType(status, fraud string) string {
	switch strings.ToLower(status) {
	case "settlement":
		return TypePaymentSucceeded
	case "capture":
		switch strings.ToLower(fraud) {
		case "accept", "":
			return TypePaymentSucceeded
		case "challenge":
			return TypePaymentPending
		}
		return TypePaymentFailed
	case "deny", "expire", "cancel", "failure":
		return TypePaymentFailed
	}
	return TypePaymentPending
}
