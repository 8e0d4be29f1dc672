package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signStripe builds a Stripe-Signature header the same way Stripe does.
func signStripe(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(ts + "." + string(payload)))
	return "t=" + ts + ",v1=" + hex.EncodeToString(m.Sum(nil))
}

func TestParseStripe_InvoicePaid(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"invoice.paid","api_version":"2020-08-27",
		"data":{"object":{"id":"in_123","object":"invoice","amount_paid":4550,"currency":"usd","metadata":{"invoice_id":"abc"}}}}`)
	ev, err := ParseStripe(payload, signStripe(payload, "whsec_test", time.Now()), "whsec_test")
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.EventID)
	assert.Equal(t, TypeInvoicePaid, ev.Type)
	assert.Equal(t, "in_123", ev.StripeInvoiceID)
	assert.InDelta(t, 45.50, ev.AmountPaid, 0.001)
	assert.Equal(t, "abc", ev.Metadata[MetaInvoiceID])
}

func TestParseStripe_BadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"invoice.paid","data":{"object":{}}}`)
	_, err := ParseStripe(payload, signStripe(payload, "other", time.Now()), "whsec_test")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseMidtrans(t *testing.T) {
	body := func(status, fraud, sig string) []byte {
		return []byte(fmt.Sprintf(`{"transaction_status":%q,"fraud_status":%q,"status_code":"200","order_id":"INV-1",
			"gross_amount":"150000.00","transaction_id":"tx-9","signature_key":%q}`, status, fraud, sig))
	}
	sig := MidtransSignature("INV-1", "200", "150000.00", "server-key")

	ev, err := ParseMidtrans(body("settlement", "", sig), "server-key")
	require.NoError(t, err)
	assert.Equal(t, TypePaymentSucceeded, ev.Type)
	assert.Equal(t, "tx-9:settlement", ev.EventID)
	assert.Equal(t, "INV-1", ev.InvoiceRef)
	assert.InDelta(t, 150000, ev.AmountPaid, 0.001)

	ev, err = ParseMidtrans(body("expire", "", sig), "server-key")
	require.NoError(t, err)
	assert.Equal(t, TypePaymentFailed, ev.Type)

	ev, err = ParseMidtrans(body("capture", "challenge", sig), "server-key")
	require.NoError(t, err)
	assert.Equal(t, TypePaymentPending, ev.Type)

	_, err = ParseMidtrans(body("settlement", "", "deadbeef"), "server-key")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), MinorUnits(19.99, "usd"))
	assert.Equal(t, int64(150000), MinorUnits(150000, "IDR"))
	assert.InDelta(t, 19.99, MajorUnits(1999, "usd"), 0.0001)
}

func TestMidtransOrderIDPerAttempt(t *testing.T) {
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	m := &MidtransCheckout{now: func() time.Time { return at }}
	req := CheckoutRequest{Reference: "INV-2026-0007", Amount: 150000, Name: "Rae Member", Description: "May membership"}

	first := m.snapRequest(req).TransactionDetails.OrderID
	at = at.Add(time.Second)
	second := m.snapRequest(req).TransactionDetails.OrderID

	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, len(first), 50)
	assert.Equal(t, "INV-2026-0007", MidtransReference(first))
	assert.Equal(t, "INV-2026-0007", MidtransReference(second))
	assert.Equal(t, "INV-1", MidtransReference("INV-1"))

	long := MidtransOrderID("EVP-0b7e6f5c-8c1e-4f8a-9a51-3f0d2c1b9e77", at)
	assert.LessOrEqual(t, len(long), 50)
	assert.Equal(t, "EVP-0b7e6f5c-8c1e-4f8a-9a51-3f0d2c1b9e77", MidtransReference(long))
}

func TestParseMidtrans_StripsAttemptStamp(t *testing.T) {
	orderID := MidtransOrderID("INV-1", time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC))
	sig := MidtransSignature(orderID, "200", "150000.00", "server-key")
	payload := []byte(fmt.Sprintf(`{"transaction_status":"settlement","status_code":"200","order_id":%q,
		"gross_amount":"150000.00","transaction_id":"tx-10","signature_key":%q}`, orderID, sig))

	ev, err := ParseMidtrans(payload, "server-key")
	require.NoError(t, err)
	assert.Equal(t, "INV-1", ev.InvoiceRef)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "Kelas Yoga Pagi", truncate("Kelas Yoga Pagi", 50))
	assert.Equal(t, "Café", truncate("Café au lait", 4))
	got := truncate("ヨガ教室の朝クラス", 3)
	assert.Equal(t, "ヨガ教", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "abc", truncate("abc", 0))
}
