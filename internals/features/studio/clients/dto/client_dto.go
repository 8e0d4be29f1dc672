package dto

import (
	"strings"

	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/clients/model"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

type CreateClientRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=80"`
	LastName    string `json:"last_name" validate:"omitempty,max=80"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=40"`
	Status      string `json:"status" validate:"omitempty,oneof=confirmed pending approved enrolled declined"`
	Goals       string `json:"goals" validate:"omitempty,max=2000"`
	Notes       string `json:"notes" validate:"omitempty,max=4000"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,ymd"`
	TrainerID   string `json:"trainer_id" validate:"omitempty,uuid"`
}

func (r CreateClientRequest) ToModel(studioID uuid.UUID) *model.ClientModel {
	m := &model.ClientModel{
		StudioID:  studioID,
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     helper.NormalizeEmail(r.Email),
		Phone:     helper.StrPtr(r.Phone),
		Status:    r.Status,
		Goals:     helper.StrPtr(r.Goals),
		Notes:     helper.StrPtr(r.Notes),
	}
	if m.Status == "" {
		m.Status = model.StatusPending
	}
	if d, err := dbtime.ParseDate(r.DateOfBirth); err == nil {
		m.DateOfBirth = &d
	}
	if id, err := uuid.Parse(r.TrainerID); err == nil {
		m.TrainerID = &id
	}
	return m
}

type UpdateClientRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName    *string `json:"last_name" validate:"omitempty,max=80"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=40"`
	Goals       *string `json:"goals" validate:"omitempty,max=2000"`
	Notes       *string `json:"notes" validate:"omitempty,max=4000"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,ymd"`
}

func (r UpdateClientRequest) Updates() map[string]any {
	u := map[string]any{}
	if r.FirstName != nil {
		u["first_name"] = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		u["last_name"] = strings.TrimSpace(*r.LastName)
	}
	if r.Email != nil {
		u["email"] = helper.NormalizeEmail(*r.Email)
	}
	if r.Phone != nil {
		u["phone"] = helper.StrPtr(*r.Phone)
	}
	if r.Goals != nil {
		u["goals"] = helper.StrPtr(*r.Goals)
	}
	if r.Notes != nil {
		u["notes"] = helper.StrPtr(*r.Notes)
	}
	if r.DateOfBirth != nil {
		d, _ := dbtime.ParseDate(*r.DateOfBirth)
		u["date_of_birth"] = d
	}
	return u
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed pending approved enrolled declined"`
}

// AssignTrainerRequest: an empty trainer_id unassigns.
type AssignTrainerRequest struct {
	TrainerID string `json:"trainer_id" validate:"omitempty,uuid"`
}

type ListClientQuery struct {
	TrainerID *uuid.UUID
	Status    string
	Search    string
}
