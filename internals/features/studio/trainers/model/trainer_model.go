package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TrainerModel struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID    uuid.UUID      `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	UserID      *uuid.UUID     `gorm:"column:user_id;type:uuid" json:"user_id"`
	FirstName   string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName    string         `gorm:"column:last_name;not null" json:"last_name"`
	Email       string         `gorm:"column:email;not null" json:"email"`
	Phone       *string        `gorm:"column:phone" json:"phone"`
	Bio         *string        `gorm:"column:bio" json:"bio"`
	Specialties pq.StringArray `gorm:"column:specialties;type:text[];not null;default:'{}'" json:"specialties"`
	AvatarURL   *string        `gorm:"column:avatar_url" json:"avatar_url"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TrainerModel) TableName() string { return "trainers" }
