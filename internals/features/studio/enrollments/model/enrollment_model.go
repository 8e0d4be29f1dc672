package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusEnrolled  = "enrolled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type EnrollmentModel struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID      uuid.UUID `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	ClassID       uuid.UUID `gorm:"column:class_id;type:uuid;not null" json:"class_id"`
	ClientID      uuid.UUID `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	Status        string    `gorm:"column:status;not null;default:active" json:"status"`
	PaymentStatus string    `gorm:"column:payment_status;not null;default:unpaid" json:"payment_status"`
	EnrolledAt    time.Time `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EnrollmentModel) TableName() string { return "class_enrollments" }

// Occupies reports whether the enrollment holds a seat.
func Occupies(status string) bool { return status != StatusCancelled }

// EnrollmentView is an enrollment joined with its class and client for listings.
type EnrollmentView struct {
	EnrollmentModel
	ClassName       string     `json:"class_name"`
	ClassDate       *time.Time `json:"class_date"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time"`
	ClientFirstName string     `json:"client_first_name"`
	ClientLastName  string     `json:"client_last_name"`
}
