package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/finance/invoices/dto"
	"studiofit_backend/internals/features/finance/invoices/model"
	"studiofit_backend/internals/features/finance/invoices/repository"
	"studiofit_backend/internals/features/finance/payments/provider"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type fakeRepo struct {
	invoices map[uuid.UUID]*model.InvoiceModel
	clients  map[uuid.UUID]bool
	saved    map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{invoices: map[uuid.UUID]*model.InvoiceModel{}, clients: map[uuid.UUID]bool{}, saved: map[uuid.UUID]string{}}
}

func (f *fakeRepo) List(context.Context, uuid.UUID, dto.ListInvoiceQuery, helper.Paging) ([]model.InvoiceModel, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Find(_ context.Context, _, id uuid.UUID) (*model.InvoiceModel, error) {
	if m, ok := f.invoices[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Create(_ context.Context, m *model.InvoiceModel) error {
	m.ID = uuid.New()
	m.Number = "INV-TEST"
	f.invoices[m.ID] = m
	return nil
}

func (f *fakeRepo) ClientOwns(_ context.Context, _, clientID uuid.UUID, _ *uuid.UUID) (bool, error) {
	return f.clients[clientID], nil
}

func (f *fakeRepo) Contact(context.Context, uuid.UUID) (repository.Contact, error) {
	return repository.Contact{Name: "Dana Client", Email: "dana@example.com"}, nil
}

func (f *fakeRepo) SaveCheckout(_ context.Context, id uuid.UUID, _, _, url string) error {
	f.saved[id] = url
	return nil
}

type fakeCheckout struct{ last provider.CheckoutRequest }

func (f *fakeCheckout) Name() string { return provider.Stripe }

func (f *fakeCheckout) Create(_ context.Context, req provider.CheckoutRequest) (*provider.CheckoutResult, error) {
	f.last = req
	return &provider.CheckoutResult{Provider: provider.Stripe, SessionID: "cs_1", URL: "https://pay.example/cs_1"}, nil
}

func newApp(repo repository.Repository, co provider.Checkout, resolver profiles.Resolver, userID uuid.UUID, role string) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, userID)
		c.Locals(helper.LocStudioID, uuid.New())
		c.Locals(helper.LocRole, role)
		return c.Next()
	})
	ctrl := NewInvoiceController(repo, co, resolver, "https://studio.example", zap.NewNop())
	api.Post("/invoices", ctrl.Create)
	api.Post("/invoices/:id/checkout", ctrl.Checkout)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCreate_UnknownClient(t *testing.T) {
	app := newApp(newFakeRepo(), &fakeCheckout{}, profiles.Static{}, uuid.New(), "admin")
	status, _ := post(t, app, "/api/invoices", `{"client_id":"`+uuid.NewString()+`","amount":25}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = post(t, app, "/api/invoices", `{"client_id":"`+uuid.NewString()+`","amount":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCheckout_ClientOwnInvoice(t *testing.T) {
	repo := newFakeRepo()
	user, client := uuid.New(), uuid.New()
	inv := &model.InvoiceModel{ID: uuid.New(), ClientID: &client, Number: "INV-1", Amount: 40, Currency: "usd", Status: model.StatusOpen}
	repo.invoices[inv.ID] = inv
	co := &fakeCheckout{}
	app := newApp(repo, co, profiles.Static{Clients: map[uuid.UUID]uuid.UUID{user: client}}, user, "client")

	status, body := post(t, app, "/api/invoices/"+inv.ID.String()+"/checkout", "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "https://pay.example/cs_1", data["checkout_url"])
	assert.Equal(t, inv.ID.String(), co.last.Metadata[provider.MetaInvoiceID])
	assert.Equal(t, "INV-1", co.last.Reference)
	assert.Equal(t, "dana@example.com", co.last.Email)
	assert.Equal(t, "https://pay.example/cs_1", repo.saved[inv.ID])
}

func TestCheckout_Rules(t *testing.T) {
	repo := newFakeRepo()
	user, client, other := uuid.New(), uuid.New(), uuid.New()
	theirs := &model.InvoiceModel{ID: uuid.New(), ClientID: &other, Status: model.StatusOpen}
	paid := &model.InvoiceModel{ID: uuid.New(), ClientID: &client, Status: model.StatusPaid}
	repo.invoices[theirs.ID], repo.invoices[paid.ID] = theirs, paid
	resolver := profiles.Static{Clients: map[uuid.UUID]uuid.UUID{user: client}}

	app := newApp(repo, &fakeCheckout{}, resolver, user, "client")
	status, _ := post(t, app, "/api/invoices/"+theirs.ID.String()+"/checkout", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = post(t, app, "/api/invoices/"+paid.ID.String()+"/checkout", "")
	assert.Equal(t, fiber.StatusConflict, status)

	trainer := newApp(repo, &fakeCheckout{}, resolver, user, "trainer")
	status, _ = post(t, trainer, "/api/invoices/"+theirs.ID.String()+"/checkout", "")
	assert.Equal(t, fiber.StatusForbidden, status)

	disabled := newApp(repo, provider.Disabled{}, resolver, user, "admin")
	status, _ = post(t, disabled, "/api/invoices/"+theirs.ID.String()+"/checkout", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}
