package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ParticipantPending    = "pending"
	ParticipantRegistered = "registered"
	ParticipantCancelled  = "cancelled"

	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

type EventModel struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID        uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	Title           string     `gorm:"column:title;not null" json:"title"`
	Slug            string     `gorm:"column:slug;not null" json:"slug"`
	Description     *string    `gorm:"column:description" json:"description"`
	Location        *string    `gorm:"column:location" json:"location"`
	StartsAt        time.Time  `gorm:"column:starts_at;not null" json:"starts_at"`
	EndsAt          *time.Time `gorm:"column:ends_at" json:"ends_at"`
	Price           float64    `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Currency        string     `gorm:"column:currency;not null;default:usd" json:"currency"`
	Capacity        *int       `gorm:"column:capacity" json:"capacity"`
	RegisteredCount int        `gorm:"column:registered_count;not null" json:"registered_count"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EventModel) TableName() string { return "community_events" }

func (m EventModel) Free() bool { return m.Price <= 0 }

func (m EventModel) Full() bool {
	return m.Capacity != nil && m.RegisteredCount >= *m.Capacity
}

type ParticipantModel struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID           uuid.UUID  `gorm:"column:event_id;type:uuid;not null" json:"event_id"`
	StudioID          uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	UserID            *uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id"`
	ClientID          *uuid.UUID `gorm:"column:client_id;type:uuid" json:"client_id"`
	Name              string     `gorm:"column:name;not null" json:"name"`
	Email             string     `gorm:"column:email;not null" json:"email"`
	Status            string     `gorm:"column:status;not null;default:pending" json:"status"`
	PaymentStatus     string     `gorm:"column:payment_status;not null;default:unpaid" json:"payment_status"`
	CheckoutSessionID *string    `gorm:"column:checkout_session_id" json:"checkout_session_id"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ParticipantModel) TableName() string { return "community_event_participants" }

func (m ParticipantModel) AwaitingPayment() bool {
	return m.Status == ParticipantPending && m.PaymentStatus == PaymentUnpaid
}
