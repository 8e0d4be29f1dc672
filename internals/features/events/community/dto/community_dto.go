package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"studiofit_backend/internals/features/events/community/model"
	helper "studiofit_backend/internals/helpers"
)

type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=5000"`
	Location    string     `json:"location" validate:"omitempty,max=300"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Price       float64    `json:"price" validate:"gte=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3,alpha"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=1"`
	IsActive    *bool      `json:"is_active"`
}

func (r CreateEventRequest) ToModel(studioID uuid.UUID) (*model.EventModel, error) {
	if r.EndsAt != nil && !r.EndsAt.After(r.StartsAt) {
		return nil, helper.NewFieldError("ends_at", "must be after starts_at")
	}
	m := &model.EventModel{
		StudioID:    studioID,
		Title:       strings.TrimSpace(r.Title),
		Description: helper.StrPtr(strings.TrimSpace(r.Description)),
		Location:    helper.StrPtr(strings.TrimSpace(r.Location)),
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Price:       r.Price,
		Currency:    strings.ToLower(r.Currency),
		Capacity:    r.Capacity,
		IsActive:    true,
	}
	if m.Currency == "" {
		m.Currency = "usd"
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m, nil
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Location    *string    `json:"location" validate:"omitempty,max=300"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Price       *float64   `json:"price" validate:"omitempty,gte=0"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=1"`
	IsActive    *bool      `json:"is_active"`
}

// Apply merges the patch into cur and returns the column updates.
func (r UpdateEventRequest) Apply(cur *model.EventModel) (map[string]any, error) {
	u := map[string]any{}
	if r.Title != nil {
		cur.Title = strings.TrimSpace(*r.Title)
		u["title"] = cur.Title
	}
	if r.Description != nil {
		u["description"] = helper.StrPtr(strings.TrimSpace(*r.Description))
	}
	if r.Location != nil {
		u["location"] = helper.StrPtr(strings.TrimSpace(*r.Location))
	}
	if r.StartsAt != nil {
		cur.StartsAt = *r.StartsAt
		u["starts_at"] = cur.StartsAt
	}
	if r.EndsAt != nil {
		cur.EndsAt = r.EndsAt
		u["ends_at"] = *r.EndsAt
	}
	if cur.EndsAt != nil && !cur.EndsAt.After(cur.StartsAt) {
		return nil, helper.NewFieldError("ends_at", "must be after starts_at")
	}
	if r.Price != nil {
		u["price"] = *r.Price
	}
	if r.Capacity != nil {
		if *r.Capacity < cur.RegisteredCount {
			return nil, helper.NewFieldError("capacity", "cannot be lower than registered_count")
		}
		u["capacity"] = *r.Capacity
	}
	if r.IsActive != nil {
		u["is_active"] = *r.IsActive
	}
	return u, nil
}

type RegisterRequest struct {
	Name  string `json:"name" validate:"omitempty,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
}

type RegisterResponse struct {
	Participant *model.ParticipantModel `json:"participant"`
	CheckoutURL string                  `json:"checkout_url,omitempty"`
}
