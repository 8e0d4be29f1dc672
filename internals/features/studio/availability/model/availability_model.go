package model

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID     uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	TrainerID    uuid.UUID  `gorm:"column:trainer_id;type:uuid;not null" json:"trainer_id"`
	DayOfWeek    int16      `gorm:"column:day_of_week;not null" json:"day_of_week"`
	StartTime    string     `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime      string     `gorm:"column:end_time;size:5;not null" json:"end_time"`
	IsAvailable  bool       `gorm:"column:is_available;not null;default:true" json:"is_available"`
	SpecificDate *time.Time `gorm:"column:specific_date;type:date" json:"specific_date"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AvailabilityModel) TableName() string { return "trainer_availability" }

// SameSlotDay reports whether two rows compete for the same calendar slot:
// same trainer and weekday, and either both recurring or both on the same date.
func (a AvailabilityModel) SameSlotDay(b AvailabilityModel) bool {
	if a.TrainerID != b.TrainerID || a.DayOfWeek != b.DayOfWeek {
		return false
	}
	switch {
	case a.SpecificDate == nil && b.SpecificDate == nil:
		return true
	case a.SpecificDate != nil && b.SpecificDate != nil:
		return a.SpecificDate.Equal(*b.SpecificDate)
	}
	return false
}
