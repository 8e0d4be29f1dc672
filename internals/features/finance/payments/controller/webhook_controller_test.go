package controller

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/configs"
	invoiceModel "studiofit_backend/internals/features/finance/invoices/model"
	"studiofit_backend/internals/features/finance/payments/model"
	"studiofit_backend/internals/features/finance/payments/provider"
	"studiofit_backend/internals/features/finance/payments/repository"
	"studiofit_backend/internals/features/finance/payments/service"
)

const secret = "whsec_test"

// eventsOnly records deliveries; no invoice is ever found.
type eventsOnly struct {
	repository.Repository
	rows map[string]*model.PaymentGatewayEventModel
}

func (e *eventsOnly) Receive(_ context.Context, ev provider.Event) (*model.PaymentGatewayEventModel, bool, error) {
	row, ok := e.rows[ev.EventID]
	if !ok {
		row = &model.PaymentGatewayEventModel{GatewayEventID: uuid.New(), GatewayEventStatus: model.GatewayEventReceived}
		e.rows[ev.EventID] = row
	}
	now := time.Now()
	if !row.Claimable(now) {
		return row, false, nil
	}
	row.GatewayEventStatus, row.GatewayEventClaimedAt = model.GatewayEventProcessing, &now
	return row, true, nil
}

func (e *eventsOnly) Finish(_ context.Context, id uuid.UUID, status model.GatewayEventStatus, _ string, _, _ *uuid.UUID) error {
	for _, r := range e.rows {
		if r.GatewayEventID == id {
			r.GatewayEventStatus = status
		}
	}
	return nil
}

func (e *eventsOnly) FindInvoice(context.Context, provider.Event) (*invoiceModel.InvoiceModel, error) {
	return nil, gorm.ErrRecordNotFound
}

func sign(payload []byte, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(ts + "." + string(payload)))
	return "t=" + ts + ",v1=" + hex.EncodeToString(m.Sum(nil))
}

func newApp() *fiber.App {
	return newAppWith(&eventsOnly{rows: map[string]*model.PaymentGatewayEventModel{}})
}

func newAppWith(repo *eventsOnly) *fiber.App {
	svc := service.New(repo, nil, 1, zap.NewNop())
	ctrl := NewWebhookController(svc, configs.StripeConfig{WebhookSecret: secret}, configs.MidtransConfig{}, zap.NewNop())
	app := fiber.New()
	app.Post("/api/webhooks/stripe", ctrl.Stripe)
	app.Post("/api/webhooks/midtrans", ctrl.Midtrans)
	return app
}

func deliver(t *testing.T, app *fiber.App, payload []byte, sig string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", sig)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body.Message
}

func TestStripeWebhook_SignatureAndReplay(t *testing.T) {
	app := newApp()
	payload := []byte(`{"id":"evt_9","object":"event","type":"invoice.paid","data":{"object":{"id":"in_x","object":"invoice","amount_paid":1000,"currency":"usd"}}}`)

	status, _ := deliver(t, app, payload, "t=1,v1=bad")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, msg := deliver(t, app, payload, sign(payload, time.Now()))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, service.ResultIgnored, msg)

	status, msg = deliver(t, app, payload, sign(payload, time.Now()))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, service.ResultDuplicate, msg)
}

func TestStripeWebhook_InFlightAsksForRetry(t *testing.T) {
	claimedAt := time.Now()
	repo := &eventsOnly{rows: map[string]*model.PaymentGatewayEventModel{
		"evt_busy": {GatewayEventID: uuid.New(), GatewayEventStatus: model.GatewayEventProcessing, GatewayEventClaimedAt: &claimedAt},
	}}
	app := newAppWith(repo)
	payload := []byte(`{"id":"evt_busy","object":"event","type":"invoice.paid","data":{"object":{"id":"in_x","object":"invoice","amount_paid":1000,"currency":"usd"}}}`)

	status, _ := deliver(t, app, payload, sign(payload, time.Now()))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, model.GatewayEventProcessing, repo.rows["evt_busy"].GatewayEventStatus)
}

func TestMidtransWebhook_Disabled(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/webhooks/midtrans", bytes.NewReader([]byte(`{}`)))
	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
