package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"studiofit_backend/internals/features/studio/trainers/model"
	helper "studiofit_backend/internals/helpers"
)

type CreateTrainerRequest struct {
	FirstName   string   `json:"first_name" validate:"required,max=80"`
	LastName    string   `json:"last_name" validate:"omitempty,max=80"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone" validate:"omitempty,max=40"`
	Bio         string   `json:"bio" validate:"omitempty,max=2000"`
	Specialties []string `json:"specialties" validate:"omitempty,max=20,dive,min=1,max=60"`
	UserID      string   `json:"user_id" validate:"omitempty,uuid"`
}

func (r CreateTrainerRequest) ToModel(studioID uuid.UUID) *model.TrainerModel {
	m := &model.TrainerModel{
		StudioID:    studioID,
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       helper.NormalizeEmail(r.Email),
		Phone:       helper.StrPtr(r.Phone),
		Bio:         helper.StrPtr(r.Bio),
		Specialties: pq.StringArray(cleanList(r.Specialties)),
		IsActive:    true,
	}
	if id, err := uuid.Parse(r.UserID); err == nil {
		m.UserID = &id
	}
	return m
}

type UpdateTrainerRequest struct {
	FirstName   *string   `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName    *string   `json:"last_name" validate:"omitempty,max=80"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Phone       *string   `json:"phone" validate:"omitempty,max=40"`
	Bio         *string   `json:"bio" validate:"omitempty,max=2000"`
	Specialties *[]string `json:"specialties" validate:"omitempty,max=20,dive,min=1,max=60"`
	IsActive    *bool     `json:"is_active"`
}

func (r UpdateTrainerRequest) Updates() map[string]any {
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
	if r.Bio != nil {
		u["bio"] = helper.StrPtr(*r.Bio)
	}
	if r.Specialties != nil {
		u["specialties"] = pq.StringArray(cleanList(*r.Specialties))
	}
	if r.IsActive != nil {
		u["is_active"] = *r.IsActive
	}
	return u
}

type ListTrainerQuery struct {
	Active    *bool
	Specialty string
	Search    string
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
