package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	invoiceModel "studiofit_backend/internals/features/finance/invoices/model"
	"studiofit_backend/internals/features/finance/payments/model"
	"studiofit_backend/internals/features/finance/payments/provider"
	"studiofit_backend/internals/features/finance/payments/repository"
	pointsRepo "studiofit_backend/internals/features/rewards/points/repository"
	pointsService "studiofit_backend/internals/features/rewards/points/service"
)

// memRepo keeps events and invoices in memory with the same claim rule as the SQL.
type memRepo struct {
	mu           sync.Mutex
	events       map[string]*model.PaymentGatewayEventModel
	invoices     map[uuid.UUID]*invoiceModel.InvoiceModel
	participants map[uuid.UUID]*repository.Payer
	paidParts    map[uuid.UUID]bool
	settleErr    error
	now          time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		events:       map[string]*model.PaymentGatewayEventModel{},
		invoices:     map[uuid.UUID]*invoiceModel.InvoiceModel{},
		participants: map[uuid.UUID]*repository.Payer{},
		paidParts:    map[uuid.UUID]bool{},
	}
}

func (m *memRepo) Receive(_ context.Context, ev provider.Event) (*model.PaymentGatewayEventModel, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ev.Provider + "/" + ev.EventID
	row, ok := m.events[key]
	if !ok {
		row = &model.PaymentGatewayEventModel{GatewayEventID: uuid.New(), GatewayEventProvider: ev.Provider,
			GatewayEventExternalID: ev.EventID, GatewayEventStatus: model.GatewayEventReceived}
		m.events[key] = row
	}
	now := m.now
	if now.IsZero() {
		now = time.Now()
	}
	if !row.Claimable(now) {
		return row, false, nil
	}
	row.GatewayEventStatus = model.GatewayEventProcessing
	row.GatewayEventClaimedAt = &now
	row.GatewayEventTryCount++
	return row, true, nil
}

func (m *memRepo) Finish(_ context.Context, id uuid.UUID, status model.GatewayEventStatus, errMsg string, _, _ *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.events {
		if row.GatewayEventID == id {
			row.GatewayEventStatus = status
			if errMsg != "" {
				row.GatewayEventError = &errMsg
			}
		}
	}
	return nil
}

func (m *memRepo) FindInvoice(_ context.Context, ev provider.Event) (*invoiceModel.InvoiceModel, error) {
	for _, inv := range m.invoices {
		if inv.StripeInvoiceID != nil && *inv.StripeInvoiceID == ev.StripeInvoiceID {
			return inv, nil
		}
		if ev.Metadata[provider.MetaInvoiceID] == inv.ID.String() || (ev.InvoiceRef != "" && ev.InvoiceRef == inv.Number) {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) SettleInvoice(_ context.Context, inv *invoiceModel.InvoiceModel, _ string, amount float64, now time.Time) error {
	if m.settleErr != nil {
		return m.settleErr
	}
	if inv.Status != invoiceModel.StatusPaid {
		inv.Status, inv.AmountPaid, inv.PaidAt = invoiceModel.StatusPaid, amount, &now
	}
	return nil
}

func (m *memRepo) FailInvoice(_ context.Context, id uuid.UUID) error {
	if inv := m.invoices[id]; inv.Status != invoiceModel.StatusPaid {
		inv.Status = invoiceModel.StatusFailed
	}
	return nil
}

func (m *memRepo) SettleEnrollment(context.Context, uuid.UUID) (*repository.Payer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) SettleParticipant(_ context.Context, id uuid.UUID) (*repository.Payer, error) {
	p, ok := m.participants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.paidParts[id] = true
	return p, nil
}

// ledger honours source_ref uniqueness like award_client_points.
type ledger struct {
	mu    sync.Mutex
	refs  map[string]int
	calls int
}

func (l *ledger) AwardAndIssue(_ context.Context, a pointsRepo.Award) (*pointsService.Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if _, dup := l.refs[*a.SourceRef]; dup {
		return &pointsService.Outcome{}, nil
	}
	l.refs[*a.SourceRef] = a.Points
	return &pointsService.Outcome{AwardResult: pointsRepo.AwardResult{Applied: true}}, nil
}

func seedInvoice(repo *memRepo) *invoiceModel.InvoiceModel {
	client := uuid.New()
	stripeID := "in_123"
	inv := &invoiceModel.InvoiceModel{ID: uuid.New(), StudioID: uuid.New(), ClientID: &client, Number: "INV-1",
		Amount: 45, Currency: "usd", Status: invoiceModel.StatusOpen, StripeInvoiceID: &stripeID}
	repo.invoices[inv.ID] = inv
	return inv
}

func TestHandle_InvoicePaidThenReplay(t *testing.T) {
	repo := newMemRepo()
	inv := seedInvoice(repo)
	points := &ledger{refs: map[string]int{}}
	svc := New(repo, points, 2, zap.NewNop())
	ev := provider.Event{Provider: provider.Stripe, EventID: "evt_1", Type: provider.TypeInvoicePaid,
		StripeInvoiceID: "in_123", AmountPaid: 45.5}

	res, err := svc.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, res.Status)
	assert.Equal(t, invoiceModel.StatusPaid, inv.Status)
	assert.Equal(t, 90, points.refs["payment:"+inv.ID.String()])

	res, err = svc.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, res.Status)
	assert.Equal(t, 1, points.calls)
}

func TestHandle_FailedEventIsReprocessed(t *testing.T) {
	repo := newMemRepo()
	inv := seedInvoice(repo)
	points := &ledger{refs: map[string]int{}}
	svc := New(repo, points, 1, zap.NewNop())
	ev := provider.Event{Provider: provider.Stripe, EventID: "evt_2", Type: provider.TypeInvoicePaid, StripeInvoiceID: "in_123"}

	repo.settleErr = errors.New("db down")
	_, err := svc.Handle(context.Background(), ev)
	require.Error(t, err)
	assert.Equal(t, model.GatewayEventFailed, repo.events["stripe/evt_2"].GatewayEventStatus)

	repo.settleErr = nil
	res, err := svc.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, res.Status)
	assert.Equal(t, 2, repo.events["stripe/evt_2"].GatewayEventTryCount)
	assert.Equal(t, 45, points.refs["payment:"+inv.ID.String()])
}

func TestHandle_UnknownInvoiceIgnored(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, &ledger{refs: map[string]int{}}, 1, zap.NewNop())
	res, err := svc.Handle(context.Background(), provider.Event{Provider: provider.Midtrans, EventID: "tx:settlement",
		Type: provider.TypePaymentSucceeded, InvoiceRef: "INV-NOPE"})
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, res.Status)
	assert.Equal(t, model.GatewayEventIgnored, repo.events["midtrans/tx:settlement"].GatewayEventStatus)
}

func TestHandle_ParticipantCheckout(t *testing.T) {
	repo := newMemRepo()
	pid, client := uuid.New(), uuid.New()
	repo.participants[pid] = &repository.Payer{StudioID: uuid.New(), ClientID: &client}
	points := &ledger{refs: map[string]int{}}
	svc := New(repo, points, 1, zap.NewNop())

	res, err := svc.Handle(context.Background(), provider.Event{Provider: provider.Stripe, EventID: "evt_3",
		Type: provider.TypeCheckoutCompleted, AmountPaid: 20, Metadata: map[string]string{provider.MetaParticipantID: pid.String()}})
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, res.Status)
	assert.True(t, repo.paidParts[pid])
	assert.Equal(t, 20, points.refs["payment:participant:"+pid.String()])

	// Midtrans carries the participant in the order id
	pid2 := uuid.New()
	repo.participants[pid2] = &repository.Payer{StudioID: uuid.New()}
	res, err = svc.Handle(context.Background(), provider.Event{Provider: provider.Midtrans, EventID: "tx2:settlement",
		Type: provider.TypePaymentSucceeded, InvoiceRef: ParticipantRefPrefix + pid2.String()})
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, res.Status)
	assert.True(t, repo.paidParts[pid2])
}

func TestHandle_PaymentFailedMarksInvoice(t *testing.T) {
	repo := newMemRepo()
	inv := seedInvoice(repo)
	svc := New(repo, &ledger{refs: map[string]int{}}, 1, zap.NewNop())
	_, err := svc.Handle(context.Background(), provider.Event{Provider: provider.Midtrans, EventID: "tx:deny",
		Type: provider.TypePaymentFailed, InvoiceRef: "INV-1"})
	require.NoError(t, err)
	assert.Equal(t, invoiceModel.StatusFailed, inv.Status)
}

func TestHandle_InFlightEventIsNotReclaimed(t *testing.T) {
	repo := newMemRepo()
	inv := seedInvoice(repo)
	points := &ledger{refs: map[string]int{}}
	svc := New(repo, points, 1, zap.NewNop())
	ev := provider.Event{Provider: provider.Stripe, EventID: "evt_busy", Type: provider.TypeInvoicePaid, StripeInvoiceID: "in_123"}

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = start
	row, claimed, err := repo.Receive(context.Background(), ev)
	require.NoError(t, err)
	require.True(t, claimed)

	// a second delivery while the first still holds the row
	repo.now = start.Add(time.Minute)
	_, err = svc.Handle(context.Background(), ev)
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, 1, row.GatewayEventTryCount)
	assert.Equal(t, invoiceModel.StatusOpen, inv.Status)
	assert.Zero(t, points.calls)

	// the holder died; once stale the row can be taken over
	repo.now = start.Add(model.ClaimStaleAfter)
	res, err := svc.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, res.Status)
	assert.Equal(t, 2, row.GatewayEventTryCount)
	assert.Equal(t, invoiceModel.StatusPaid, inv.Status)
}

func TestClaimable(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fresh, stale := now.Add(-time.Second), now.Add(-model.ClaimStaleAfter-time.Second)
	cases := []struct {
		status  model.GatewayEventStatus
		claimed *time.Time
		want    bool
	}{
		{model.GatewayEventReceived, nil, true},
		{model.GatewayEventFailed, &fresh, true},
		{model.GatewayEventProcessing, &fresh, false},
		{model.GatewayEventProcessing, &stale, true},
		{model.GatewayEventProcessing, nil, true},
		{model.GatewayEventSuccess, nil, false},
		{model.GatewayEventIgnored, nil, false},
	}
	for _, tc := range cases {
		row := model.PaymentGatewayEventModel{GatewayEventStatus: tc.status, GatewayEventClaimedAt: tc.claimed}
		assert.Equal(t, tc.want, row.Claimable(now), string(tc.status))
	}
}
