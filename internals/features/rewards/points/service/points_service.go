package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studiofit_backend/internals/features/rewards/points/dto"
	"studiofit_backend/internals/features/rewards/points/model"
	"studiofit_backend/internals/features/rewards/points/repository"
)

var ErrClientNotInStudio = errors.New("client not found in this studio")

const recentTransactions = 20

// Outcome is an award plus any rewards it newly unlocked.
type Outcome struct {
	repository.AwardResult
	Issued []model.ClientRewardModel `json:"issued_rewards"`
}

// Awarder is what payments and referrals need from the ledger.
type Awarder interface {
	AwardAndIssue(ctx context.Context, a repository.Award) (*Outcome, error)
}

type Service struct {
	repo repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func New(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// AwardAndIssue records the award and, when it actually applied and earned points, issues crossed thresholds.
// A replay with the same source ref is a no-op.
func (s *Service) AwardAndIssue(ctx context.Context, a repository.Award) (*Outcome, error) {
	res, err := s.repo.Award(ctx, a)
	if err != nil {
		return nil, err
	}
	out := &Outcome{AwardResult: res}
	if !res.Applied {
		s.log.Info("points award already applied",
			zap.String("client_id", a.ClientID.String()),
			zap.Stringp("source_ref", a.SourceRef))
		return out, nil
	}
	if a.Points <= 0 {
		return out, nil
	}
	out.Issued, err = s.repo.IssueRewards(ctx, a.StudioID, a.ClientID, res.LifetimeEarned, s.now())
	if err != nil {
		return nil, err
	}
	for _, r := range out.Issued {
		s.log.Info("reward issued",
			zap.String("client_id", a.ClientID.String()),
			zap.String("threshold_id", r.ThresholdID.String()))
	}
	return out, nil
}

func (s *Service) Adjust(ctx context.Context, studioID uuid.UUID, req dto.AdjustRequest) (*Outcome, error) {
	clientID := uuid.MustParse(req.ClientID)
	ok, err := s.repo.ClientInStudio(ctx, studioID, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClientNotInStudio
	}
	return s.AwardAndIssue(ctx, repository.Award{
		ClientID:    clientID,
		StudioID:    studioID,
		Points:      req.Points,
		Kind:        model.KindAdjust,
		Source:      "admin",
		Description: req.Description,
	})
}

func (s *Service) Summary(ctx context.Context, studioID, clientID uuid.UUID) (*dto.PointsSummary, error) {
	ok, err := s.repo.ClientInStudio(ctx, studioID, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClientNotInStudio
	}
	bal, err := s.repo.Balance(ctx, clientID)
	if err != nil {
		return nil, err
	}
	txs, err := s.repo.Transactions(ctx, clientID, recentTransactions)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []model.PointTransactionModel{}
	}
	return &dto.PointsSummary{
		ClientID:       clientID,
		Balance:        bal.Balance,
		LifetimeEarned: bal.LifetimeEarned,
		Transactions:   txs,
	}, nil
}

func (s *Service) Rewards(ctx context.Context, clientID uuid.UUID) ([]model.RewardView, error) {
	return s.repo.Rewards(ctx, clientID)
}

func (s *Service) Redeem(ctx context.Context, clientID, rewardID uuid.UUID) (*model.ClientRewardModel, error) {
	return s.repo.RedeemReward(ctx, clientID, rewardID, s.now())
}
