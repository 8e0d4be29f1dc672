package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusEnrolled  = "enrolled"
	StatusDeclined  = "declined"
)

var Statuses = []string{StatusConfirmed, StatusPending, StatusApproved, StatusEnrolled, StatusDeclined}

type ClientModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID    uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	UserID      *uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id"`
	TrainerID   *uuid.UUID `gorm:"column:trainer_id;type:uuid" json:"trainer_id"`
	FirstName   string     `gorm:"column:first_name;not null" json:"first_name"`
	LastName    string     `gorm:"column:last_name;not null" json:"last_name"`
	Email       string     `gorm:"column:email;not null" json:"email"`
	Phone       *string    `gorm:"column:phone" json:"phone"`
	Status      string     `gorm:"column:status;not null;default:pending" json:"status"`
	Goals       *string    `gorm:"column:goals" json:"goals"`
	Notes       *string    `gorm:"column:notes" json:"notes"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth;type:date" json:"date_of_birth"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ClientModel) TableName() string { return "clients" }

func (c ClientModel) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
