package dto

import (
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/studios/model"
)

type UpdateStudioRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Timezone     *string `json:"timezone" validate:"omitempty,max=64"`
	ReminderHour *int    `json:"reminder_hour" validate:"omitempty,gte=0,lte=23"`
}

type RoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=admin trainer client"`
}

type PublicStudioResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Timezone string    `json:"timezone"`
	Currency string    `json:"currency"`
}

func ToPublic(m *model.StudioModel) PublicStudioResponse {
	return PublicStudioResponse{ID: m.ID, Name: m.Name, Slug: m.Slug, Timezone: m.Timezone, Currency: m.Currency}
}
