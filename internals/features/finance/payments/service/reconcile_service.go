package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/finance/payments/model"
	"studiofit_backend/internals/features/finance/payments/provider"
	"studiofit_backend/internals/features/finance/payments/repository"
	pointsModel "studiofit_backend/internals/features/rewards/points/model"
	pointsRepo "studiofit_backend/internals/features/rewards/points/repository"
	pointsService "studiofit_backend/internals/features/rewards/points/service"
)

const (
	ResultProcessed = "processed"
	ResultDuplicate = "duplicate"
	ResultIgnored   = "ignored"
)

// ErrInFlight means another delivery of the same event is still being processed.
var ErrInFlight = errors.New("webhook event in flight")

// ParticipantRefPrefix marks gateway references that point at an event participant instead of an invoice.
const ParticipantRefPrefix = "EVP-"

type Result struct {
	Status  string `json:"status"`
	EventID string `json:"event_id"`
	Type    string `json:"type"`
}

// Service reconciles webhook events from any gateway; every step is safe to repeat.
type Service struct {
	repo    repository.Repository
	points  pointsService.Awarder
	perUnit int
	log     *zap.Logger
	now     func() time.Time
}

func New(repo repository.Repository, points pointsService.Awarder, perUnit int, log *zap.Logger) *Service {
	return &Service{repo: repo, points: points, perUnit: perUnit, log: log, now: time.Now}
}

// outcome of one dispatch, recorded on the event row.
type outcome struct {
	ignored   bool
	studioID  *uuid.UUID
	invoiceID *uuid.UUID
}

func (s *Service) Handle(ctx context.Context, ev provider.Event) (Result, error) {
	res := Result{EventID: ev.EventID, Type: ev.Type}
	row, claimed, err := s.repo.Receive(ctx, ev)
	if err != nil {
		return res, err
	}
	if !claimed && !row.GatewayEventStatus.Final() {
		s.log.Info("webhook in flight",
			zap.String("provider", ev.Provider),
			zap.String("event_id", ev.EventID))
		return res, ErrInFlight
	}
	if !claimed {
		s.log.Info("webhook duplicate",
			zap.String("provider", ev.Provider),
			zap.String("event_id", ev.EventID),
			zap.String("status", string(row.GatewayEventStatus)))
		res.Status = ResultDuplicate
		return res, nil
	}

	out, err := s.dispatch(ctx, ev)
	if err != nil {
		s.log.Error("webhook failed",
			zap.String("provider", ev.Provider),
			zap.String("event_id", ev.EventID),
			zap.Int("try", row.GatewayEventTryCount),
			zap.Error(err))
		if ferr := s.repo.Finish(ctx, row.GatewayEventID, model.GatewayEventFailed, err.Error(), out.studioID, out.invoiceID); ferr != nil {
			s.log.Error("mark webhook failed", zap.Error(ferr))
		}
		return res, err
	}

	status := model.GatewayEventSuccess
	res.Status = ResultProcessed
	if out.ignored {
		status = model.GatewayEventIgnored
		res.Status = ResultIgnored
	}
	if err := s.repo.Finish(ctx, row.GatewayEventID, status, "", out.studioID, out.invoiceID); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) dispatch(ctx context.Context, ev provider.Event) (outcome, error) {
	switch ev.Type {
	case provider.TypeInvoicePaid:
		return s.settleInvoice(ctx, ev)

	case provider.TypeCheckoutCompleted, provider.TypePaymentSucceeded:
		if id, ok := metaUUID(ev.Metadata, provider.MetaInvoiceID); ok && id != uuid.Nil {
			return s.settleInvoice(ctx, ev)
		}
		if id, ok := metaUUID(ev.Metadata, provider.MetaEnrollmentID); ok {
			return s.settlePayer(ctx, ev, "enrollment", id, s.repo.SettleEnrollment)
		}
		if id, ok := metaUUID(ev.Metadata, provider.MetaParticipantID); ok {
			return s.settlePayer(ctx, ev, "participant", id, s.repo.SettleParticipant)
		}
		if id, ok := participantRef(ev.InvoiceRef); ok {
			return s.settlePayer(ctx, ev, "participant", id, s.repo.SettleParticipant)
		}
		if ev.InvoiceRef != "" {
			return s.settleInvoice(ctx, ev)
		}
		s.log.Warn("webhook without a local reference", zap.String("event_id", ev.EventID), zap.String("type", ev.Type))
		return outcome{ignored: true}, nil

	case provider.TypeInvoiceFailed, provider.TypePaymentFailed:
		inv, err := s.repo.FindInvoice(ctx, ev)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return outcome{ignored: true}, nil
		}
		if err != nil {
			return outcome{}, err
		}
		out := outcome{studioID: &inv.StudioID, invoiceID: &inv.ID}
		return out, s.repo.FailInvoice(ctx, inv.ID)
	}
	return outcome{ignored: true}, nil
}

func (s *Service) settleInvoice(ctx context.Context, ev provider.Event) (outcome, error) {
	inv, err := s.repo.FindInvoice(ctx, ev)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("webhook for unknown invoice",
			zap.String("event_id", ev.EventID),
			zap.String("stripe_invoice_id", ev.StripeInvoiceID),
			zap.String("ref", ev.InvoiceRef))
		return outcome{ignored: true}, nil
	}
	if err != nil {
		return outcome{}, err
	}
	out := outcome{studioID: &inv.StudioID, invoiceID: &inv.ID}

	amount := ev.AmountPaid
	if amount <= 0 {
		amount = inv.Amount
	}
	if err := s.repo.SettleInvoice(ctx, inv, ev.StripeInvoiceID, amount, s.now()); err != nil {
		return out, err
	}
	if inv.ClientID != nil {
		if err := s.award(ctx, inv.StudioID, *inv.ClientID, amount, "payment:"+inv.ID.String(), "Invoice "+inv.Number); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *Service) settlePayer(ctx context.Context, ev provider.Event, kind string, id uuid.UUID,
	settle func(context.Context, uuid.UUID) (*repository.Payer, error)) (outcome, error) {
	payer, err := settle(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("webhook for unknown "+kind, zap.String("event_id", ev.EventID), zap.String("id", id.String()))
		return outcome{ignored: true}, nil
	}
	if err != nil {
		return outcome{}, err
	}
	out := outcome{studioID: &payer.StudioID}
	if payer.ClientID != nil {
		ref := "payment:" + kind + ":" + id.String()
		if err := s.award(ctx, payer.StudioID, *payer.ClientID, ev.AmountPaid, ref, "Payment for "+kind); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *Service) award(ctx context.Context, studioID, clientID uuid.UUID, amount float64, ref, desc string) error {
	pts := int(math.Floor(amount)) * s.perUnit
	if pts <= 0 || s.points == nil {
		return nil
	}
	_, err := s.points.AwardAndIssue(ctx, pointsRepo.Award{
		ClientID:    clientID,
		StudioID:    studioID,
		Points:      pts,
		Kind:        pointsModel.KindEarn,
		Source:      "payment",
		SourceRef:   &ref,
		Description: desc,
	})
	return err
}

func metaUUID(meta map[string]string, key string) (uuid.UUID, bool) {
	raw := strings.TrimSpace(meta[key])
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

func participantRef(ref string) (uuid.UUID, bool) {
	if !strings.HasPrefix(ref, ParticipantRefPrefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(ref, ParticipantRefPrefix))
	return id, err == nil
}
