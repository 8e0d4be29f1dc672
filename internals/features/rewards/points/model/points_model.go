package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindEarn   = "earn"
	KindRedeem = "redeem"
	KindAdjust = "adjust"

	RewardIssued   = "issued"
	RewardRedeemed = "redeemed"
)

type ClientPointsModel struct {
	ClientID       uuid.UUID `gorm:"column:client_id;type:uuid;primaryKey" json:"client_id"`
	StudioID       uuid.UUID `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	Balance        int       `gorm:"column:balance;not null" json:"balance"`
	LifetimeEarned int       `gorm:"column:lifetime_earned;not null" json:"lifetime_earned"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ClientPointsModel) TableName() string { return "client_points" }

type PointTransactionModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID    uuid.UUID `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	StudioID    uuid.UUID `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	Points      int       `gorm:"column:points;not null" json:"points"`
	Kind        string    `gorm:"column:kind;not null" json:"kind"`
	Source      string    `gorm:"column:source;not null" json:"source"`
	SourceRef   *string   `gorm:"column:source_ref" json:"source_ref"`
	Description *string   `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PointTransactionModel) TableName() string { return "point_transactions" }

type RewardThresholdModel struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID          uuid.UUID `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	PointsRequired    int       `gorm:"column:points_required;not null" json:"points_required"`
	RewardDescription *string   `gorm:"column:reward_description" json:"reward_description"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RewardThresholdModel) TableName() string { return "reward_thresholds" }

type ClientRewardModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID    uuid.UUID  `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	StudioID    uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	ThresholdID uuid.UUID  `gorm:"column:threshold_id;type:uuid;not null" json:"threshold_id"`
	Status      string     `gorm:"column:status;not null;default:issued" json:"status"`
	IssuedAt    time.Time  `gorm:"column:issued_at;not null" json:"issued_at"`
	RedeemedAt  *time.Time `gorm:"column:redeemed_at" json:"redeemed_at"`
}

func (ClientRewardModel) TableName() string { return "client_rewards" }

// RewardView joins a client reward with its threshold.
type RewardView struct {
	ClientRewardModel
	Name              string  `json:"name"`
	PointsRequired    int     `json:"points_required"`
	RewardDescription *string `json:"reward_description"`
}
