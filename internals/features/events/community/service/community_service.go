package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/events/community/dto"
	"studiofit_backend/internals/features/events/community/model"
	"studiofit_backend/internals/features/events/community/repository"
	"studiofit_backend/internals/features/finance/payments/provider"
	paymentService "studiofit_backend/internals/features/finance/payments/service"
	helper "studiofit_backend/internals/helpers"
)

var (
	// ErrCheckout wraps gateway failures so callers can tell them from registration errors.
	ErrCheckout   = errors.New("checkout failed")
	ErrNotPending = errors.New("registration is not pending")
)

type Service struct {
	repo     repository.Repository
	checkout provider.Checkout
	siteURL  string
	log      *zap.Logger
}

func New(repo repository.Repository, checkout provider.Checkout, siteURL string, log *zap.Logger) *Service {
	return &Service{repo: repo, checkout: checkout, siteURL: siteURL, log: log}
}

// Register signs the user up. Free events confirm at once; paid events hold a pending seat until the webhook settles it.
func (s *Service) Register(ctx context.Context, userID, eventID uuid.UUID, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ev, err := s.repo.FindActive(ctx, eventID)
	if err != nil {
		return nil, err
	}
	who, err := s.repo.Registrant(ctx, ev.StudioID, userID)
	if err != nil {
		return nil, err
	}
	p := &model.ParticipantModel{
		EventID:       ev.ID,
		StudioID:      ev.StudioID,
		UserID:        &userID,
		ClientID:      who.ClientID,
		Name:          firstNonEmpty(req.Name, who.Name),
		Email:         helper.NormalizeEmail(firstNonEmpty(req.Email, who.Email)),
		Status:        model.ParticipantRegistered,
		PaymentStatus: model.PaymentPaid,
	}
	if !ev.Free() {
		p.Status, p.PaymentStatus = model.ParticipantPending, model.PaymentUnpaid
	}
	if err := s.repo.Register(ctx, p); err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) && !ev.Free() {
			return s.resume(ctx, ev, userID)
		}
		return nil, err
	}
	out := &dto.RegisterResponse{Participant: p}
	if ev.Free() {
		return out, nil
	}

	res, err := s.startCheckout(ctx, ev, p)
	if err != nil {
		if !errors.Is(err, ErrCheckout) {
			return nil, err
		}
		if rerr := s.repo.Release(ctx, p.ID); rerr != nil {
			s.log.Error("release seat after checkout failure", zap.String("participant_id", p.ID.String()), zap.Error(rerr))
		}
		return nil, err
	}
	out.CheckoutURL = res.URL
	return out, nil
}

// resume hands a user with an unpaid seat a fresh checkout instead of a conflict.
func (s *Service) resume(ctx context.Context, ev *model.EventModel, userID uuid.UUID) (*dto.RegisterResponse, error) {
	p, err := s.repo.FindParticipant(ctx, ev.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAlreadyRegistered
		}
		return nil, err
	}
	if !p.AwaitingPayment() {
		return nil, repository.ErrAlreadyRegistered
	}
	// the held seat is kept when the gateway fails; the user can retry or cancel
	res, err := s.startCheckout(ctx, ev, p)
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{Participant: p, CheckoutURL: res.URL}, nil
}

// Cancel gives back a seat the user is still holding without payment.
func (s *Service) Cancel(ctx context.Context, userID, eventID uuid.UUID) error {
	p, err := s.repo.FindParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !p.AwaitingPayment() {
		return ErrNotPending
	}
	return s.repo.Release(ctx, p.ID)
}

func (s *Service) startCheckout(ctx context.Context, ev *model.EventModel, p *model.ParticipantModel) (*provider.CheckoutResult, error) {
	res, err := s.checkout.Create(ctx, provider.CheckoutRequest{
		Reference:   paymentService.ParticipantRefPrefix + p.ID.String(),
		Amount:      ev.Price,
		Currency:    ev.Currency,
		Description: ev.Title,
		Email:       p.Email,
		Name:        p.Name,
		Metadata:    map[string]string{provider.MetaParticipantID: p.ID.String()},
		SuccessURL:  s.siteURL + "/events/" + ev.Slug + "?registered=1",
		CancelURL:   s.siteURL + "/events/" + ev.Slug,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheckout, err)
	}
	if err := s.repo.SetCheckout(ctx, p.ID, res.SessionID); err != nil {
		return nil, err
	}
	p.CheckoutSessionID = &res.SessionID
	return res, nil
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return strings.TrimSpace(b)
}
