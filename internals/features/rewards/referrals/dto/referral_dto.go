package dto

import (
	"time"
)

const (
	MinCodeLen = 4
	MaxCodeLen = 20
)

type CreateCodeRequest struct {
	CustomCode string     `json:"custom_code" validate:"omitempty,max=64"`
	MaxUses    *int       `json:"max_uses" validate:"omitempty,min=1"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type UpdateCodeRequest struct {
	IsActive *bool `json:"is_active"`
	MaxUses  *int  `json:"max_uses" validate:"omitempty,min=1"`
}

func (r UpdateCodeRequest) Empty() bool { return r.IsActive == nil && r.MaxUses == nil }

type TrackRequest struct {
	Code          string `json:"code" validate:"required,max=64"`
	ReferredEmail string `json:"referred_email" validate:"required,email"`
}

type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}
