package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TrackingPending   = "pending"
	TrackingCompleted = "completed"
	TrackingCancelled = "cancelled"
)

// Reasons mirror the messages raised by use_referral_code.
const (
	ReasonNotFound = "Referral code not found"
	ReasonInactive = "Referral code is inactive"
	ReasonExpired  = "Referral code has expired"
	ReasonUsedUp   = "Referral code has reached its usage limit"
)

type ReferralCodeModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID    uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Code        string     `gorm:"column:code;not null" json:"code"`
	MaxUses     *int       `gorm:"column:max_uses" json:"max_uses"`
	CurrentUses int        `gorm:"column:current_uses;not null" json:"current_uses"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"is_active"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (ReferralCodeModel) TableName() string { return "referral_codes" }

// Usable applies the same checks as use_referral_code without consuming a use.
func (m ReferralCodeModel) Usable(now time.Time) (bool, string) {
	switch {
	case !m.IsActive:
		return false, ReasonInactive
	case m.ExpiresAt != nil && !m.ExpiresAt.After(now):
		return false, ReasonExpired
	case m.MaxUses != nil && m.CurrentUses >= *m.MaxUses:
		return false, ReasonUsedUp
	}
	return true, ""
}

type ReferralTrackingModel struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID       uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	ReferralCodeID uuid.UUID  `gorm:"column:referral_code_id;type:uuid;not null" json:"referral_code_id"`
	ReferrerUserID uuid.UUID  `gorm:"column:referrer_user_id;type:uuid;not null" json:"referrer_user_id"`
	ReferredUserID *uuid.UUID `gorm:"column:referred_user_id;type:uuid" json:"referred_user_id"`
	ReferredEmail  string     `gorm:"column:referred_email;not null" json:"referred_email"`
	Status         string     `gorm:"column:status;not null;default:pending" json:"status"`
	PointsAwarded  int        `gorm:"column:points_awarded;not null" json:"points_awarded"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at"`
	CancelledAt    *time.Time `gorm:"column:cancelled_at" json:"cancelled_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReferralTrackingModel) TableName() string { return "referral_tracking" }

// TrackingView adds the code text for listings.
type TrackingView struct {
	ReferralTrackingModel
	Code string `json:"code"`
}
