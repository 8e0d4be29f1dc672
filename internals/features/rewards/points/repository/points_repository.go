package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiofit_backend/internals/features/rewards/points/model"
)

var ErrRewardRedeemed = errors.New("reward already redeemed")

// Award is one call to award_client_points.
type Award struct {
	ClientID    uuid.UUID
	StudioID    uuid.UUID
	Points      int
	Kind        string
	Source      string
	SourceRef   *string
	Description string
}

type AwardResult struct {
	Balance        int  `json:"balance" gorm:"column:out_balance"`
	LifetimeEarned int  `json:"lifetime_earned" gorm:"column:out_lifetime_earned"`
	Applied        bool `json:"applied" gorm:"column:out_applied"`
}

type Repository interface {
	Award(ctx context.Context, a Award) (AwardResult, error)
	// IssueRewards inserts a client_rewards row for every active threshold at or below lifetime.
	IssueRewards(ctx context.Context, studioID, clientID uuid.UUID, lifetime int, now time.Time) ([]model.ClientRewardModel, error)

	Balance(ctx context.Context, clientID uuid.UUID) (model.ClientPointsModel, error)
	Transactions(ctx context.Context, clientID uuid.UUID, limit int) ([]model.PointTransactionModel, error)
	ClientInStudio(ctx context.Context, studioID, clientID uuid.UUID) (bool, error)

	Rewards(ctx context.Context, clientID uuid.UUID) ([]model.RewardView, error)
	RedeemReward(ctx context.Context, clientID, rewardID uuid.UUID, now time.Time) (*model.ClientRewardModel, error)

	ListThresholds(ctx context.Context, studioID uuid.UUID) ([]model.RewardThresholdModel, error)
	CreateThreshold(ctx context.Context, m *model.RewardThresholdModel) error
	UpdateThreshold(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) (*model.RewardThresholdModel, error)
	DeleteThreshold(ctx context.Context, studioID, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Award(ctx context.Context, a Award) (AwardResult, error) {
	var res AwardResult
	err := r.db.WithContext(ctx).Raw(
		`SELECT * FROM award_client_points(?, ?, ?, ?, ?, ?, ?)`,
		a.ClientID, a.StudioID, a.Points, a.Kind, a.Source, a.SourceRef, a.Description,
	).Scan(&res).Error
	return res, err
}

func (r *gormRepository) IssueRewards(ctx context.Context, studioID, clientID uuid.UUID, lifetime int, now time.Time) ([]model.ClientRewardModel, error) {
	// RETURNING only yields the rows this call inserted
	var issued []model.ClientRewardModel
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO client_rewards (client_id, studio_id, threshold_id, status, issued_at)
		SELECT ?, t.studio_id, t.id, ?, ?
		  FROM reward_thresholds t
		 WHERE t.studio_id = ? AND t.is_active AND t.points_required <= ?
		ON CONFLICT (client_id, threshold_id) DO NOTHING
		RETURNING *`,
		clientID, model.RewardIssued, now, studioID, lifetime).
		Scan(&issued).Error
	return issued, err
}

func (r *gormRepository) Balance(ctx context.Context, clientID uuid.UUID) (model.ClientPointsModel, error) {
	m := model.ClientPointsModel{ClientID: clientID}
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Limit(1).Find(&m).Error
	return m, err
}

func (r *gormRepository) Transactions(ctx context.Context, clientID uuid.UUID, limit int) ([]model.PointTransactionModel, error) {
	var out []model.PointTransactionModel
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *gormRepository) ClientInStudio(ctx context.Context, studioID, clientID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("clients").Where("studio_id = ? AND id = ?", studioID, clientID).Count(&n).Error
	return n > 0, err
}

func (r *gormRepository) Rewards(ctx context.Context, clientID uuid.UUID) ([]model.RewardView, error) {
	var out []model.RewardView
	err := r.db.WithContext(ctx).Table("client_rewards r").
		Select("r.*, t.name, t.points_required, t.reward_description").
		Joins("JOIN reward_thresholds t ON t.id = r.threshold_id").
		Where("r.client_id = ?", clientID).
		Order("r.issued_at DESC").
		Scan(&out).Error
	return out, err
}

func (r *gormRepository) RedeemReward(ctx context.Context, clientID, rewardID uuid.UUID, now time.Time) (*model.ClientRewardModel, error) {
	var m model.ClientRewardModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND client_id = ?", rewardID, clientID).
			First(&m).Error; err != nil {
			return err
		}
		if m.Status == model.RewardRedeemed {
			return ErrRewardRedeemed
		}
		m.Status = model.RewardRedeemed
		m.RedeemedAt = &now
		return tx.Model(&m).Updates(map[string]any{"status": m.Status, "redeemed_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) ListThresholds(ctx context.Context, studioID uuid.UUID) ([]model.RewardThresholdModel, error) {
	var out []model.RewardThresholdModel
	err := r.db.WithContext(ctx).Where("studio_id = ?", studioID).Order("points_required ASC").Find(&out).Error
	return out, err
}

func (r *gormRepository) CreateThreshold(ctx context.Context, m *model.RewardThresholdModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) UpdateThreshold(ctx context.Context, studioID, id uuid.UUID, updates map[string]any) (*model.RewardThresholdModel, error) {
	res := r.db.WithContext(ctx).Model(&model.RewardThresholdModel{}).
		Where("studio_id = ? AND id = ?", studioID, id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var m model.RewardThresholdModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *gormRepository) DeleteThreshold(ctx context.Context, studioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("studio_id = ? AND id = ?", studioID, id).Delete(&model.RewardThresholdModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
