package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	pointsModel "studiofit_backend/internals/features/rewards/points/model"
	pointsRepo "studiofit_backend/internals/features/rewards/points/repository"
	pointsService "studiofit_backend/internals/features/rewards/points/service"
	"studiofit_backend/internals/features/rewards/referrals/dto"
	"studiofit_backend/internals/features/rewards/referrals/model"
	"studiofit_backend/internals/features/rewards/referrals/repository"
	helper "studiofit_backend/internals/helpers"
)

type Service struct {
	repo   repository.Repository
	points pointsService.Awarder
	reward int
	log    *zap.Logger
	now    func() time.Time
}

// New wires the referral flows; reward is the points a completed referral earns the referrer.
func New(repo repository.Repository, points pointsService.Awarder, reward int, log *zap.Logger) *Service {
	return &Service{repo: repo, points: points, reward: reward, log: log, now: time.Now}
}

func (s *Service) CreateCode(ctx context.Context, studioID, userID uuid.UUID, req dto.CreateCodeRequest) (*model.ReferralCodeModel, error) {
	custom := ""
	if req.CustomCode != "" {
		custom = helper.NormalizeCode(req.CustomCode)
		if n := len(custom); n < dto.MinCodeLen || n > dto.MaxCodeLen {
			return nil, helper.NewFieldError("custom_code", "must be 4-20 letters or digits")
		}
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, helper.NewFieldError("expires_at", "must be in the future")
	}
	return s.repo.CreateCode(ctx, studioID, userID, custom, req.MaxUses, req.ExpiresAt)
}

// Validate reports whether a code can be used right now without consuming it.
func (s *Service) Validate(ctx context.Context, raw string) (dto.ValidateResponse, error) {
	code := helper.NormalizeCode(raw)
	if code == "" {
		return dto.ValidateResponse{Reason: model.ReasonNotFound}, nil
	}
	m, err := s.repo.FindCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ValidateResponse{Code: code, Reason: model.ReasonNotFound}, nil
	}
	if err != nil {
		return dto.ValidateResponse{}, err
	}
	ok, reason := m.Usable(s.now())
	return dto.ValidateResponse{Valid: ok, Code: m.Code, Reason: reason}, nil
}

func (s *Service) Track(ctx context.Context, req dto.TrackRequest) (*model.ReferralTrackingModel, error) {
	return s.repo.Track(ctx, repository.Track{
		Code:          helper.NormalizeCode(req.Code),
		ReferredEmail: helper.NormalizeEmail(req.ReferredEmail),
	})
}

// TrackSignup records a registration that came in with a referral code.
func (s *Service) TrackSignup(ctx context.Context, code, email string, referredUserID uuid.UUID) error {
	row, err := s.repo.Track(ctx, repository.Track{
		Code:           helper.NormalizeCode(code),
		ReferredEmail:  helper.NormalizeEmail(email),
		ReferredUserID: &referredUserID,
	})
	if err != nil {
		return err
	}
	s.log.Info("referral tracked", zap.String("tracking_id", row.ID.String()), zap.String("referrer", row.ReferrerUserID.String()))
	return nil
}

func (s *Service) Complete(ctx context.Context, studioID, id uuid.UUID) (*model.ReferralTrackingModel, error) {
	row, clientID, err := s.repo.Complete(ctx, studioID, id, s.reward, s.now())
	if err != nil {
		return nil, err
	}
	if clientID == nil || s.reward <= 0 {
		s.log.Info("referral completed without points", zap.String("tracking_id", id.String()))
		return row, nil
	}
	ref := "referral:" + row.ID.String()
	if _, err := s.points.AwardAndIssue(ctx, pointsRepo.Award{
		ClientID:    *clientID,
		StudioID:    studioID,
		Points:      s.reward,
		Kind:        pointsModel.KindEarn,
		Source:      "referral",
		SourceRef:   &ref,
		Description: "Referral completed: " + row.ReferredEmail,
	}); err != nil {
		// the transition is committed; source_ref keeps a manual re-award idempotent
		s.log.Error("referral points not awarded",
			zap.String("tracking_id", row.ID.String()), zap.String("source_ref", ref), zap.Error(err))
	}
	return row, nil
}

func (s *Service) Cancel(ctx context.Context, studioID, id uuid.UUID) (*model.ReferralTrackingModel, error) {
	return s.repo.Cancel(ctx, studioID, id, s.now())
}
