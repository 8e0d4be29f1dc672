package model

import (
	"time"

	"github.com/google/uuid"
)

var Statuses = []string{"present", "absent", "late", "excused"}

type AttendanceModel struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID       uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	ClassID        uuid.UUID  `gorm:"column:class_id;type:uuid;not null" json:"class_id"`
	ClientID       uuid.UUID  `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	AttendanceDate time.Time  `gorm:"column:attendance_date;type:date;not null" json:"attendance_date"`
	Status         string     `gorm:"column:status;not null" json:"status"`
	Notes          *string    `gorm:"column:notes" json:"notes"`
	MarkedBy       *uuid.UUID `gorm:"column:marked_by;type:uuid" json:"marked_by"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AttendanceModel) TableName() string { return "attendance" }
