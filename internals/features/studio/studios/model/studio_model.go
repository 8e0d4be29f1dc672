package model

import (
	"time"

	"github.com/google/uuid"
)

type StudioModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Slug         string    `gorm:"column:slug;not null;unique" json:"slug"`
	Timezone     string    `gorm:"column:timezone;not null;default:UTC" json:"timezone"`
	Currency     string    `gorm:"column:currency;not null;default:usd" json:"currency"`
	ReminderHour int       `gorm:"column:reminder_hour;not null;default:18" json:"reminder_hour"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (StudioModel) TableName() string { return "studios" }
