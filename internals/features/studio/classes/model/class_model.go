package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

type ClassModel struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID          uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	TrainerID         *uuid.UUID `gorm:"column:trainer_id;type:uuid" json:"trainer_id"`
	Name              string     `gorm:"column:name;not null" json:"name"`
	Description       *string    `gorm:"column:description" json:"description"`
	Location          *string    `gorm:"column:location" json:"location"`
	ClassDate         *time.Time `gorm:"column:class_date;type:date" json:"class_date"`
	DayOfWeek         *int16     `gorm:"column:day_of_week" json:"day_of_week"`
	StartTime         string     `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime           string     `gorm:"column:end_time;size:5;not null" json:"end_time"`
	MaxCapacity       int        `gorm:"column:max_capacity;not null;default:10" json:"max_capacity"`
	CurrentEnrollment int        `gorm:"column:current_enrollment;not null;default:0" json:"current_enrollment"`
	Price             float64    `gorm:"column:price;type:numeric(10,2);not null;default:0" json:"price"`
	Status            string     `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ClassModel) TableName() string { return "classes" }

func (c ClassModel) IsFull() bool { return c.CurrentEnrollment >= c.MaxCapacity }

// RosterEntry is one enrolled client plus their attendance on the roster date.
type RosterEntry struct {
	EnrollmentID     uuid.UUID `json:"enrollment_id"`
	ClientID         uuid.UUID `json:"client_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	EnrollmentStatus string    `json:"enrollment_status"`
	PaymentStatus    string    `json:"payment_status"`
	Attendance       *string   `json:"attendance"`
	AttendanceNotes  *string   `json:"attendance_notes"`
}
