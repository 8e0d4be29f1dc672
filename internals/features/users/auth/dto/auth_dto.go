package dto

import (
	"time"

	"github.com/google/uuid"

	"studiofit_backend/internals/features/users/auth/model"
)

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	FullName     string `json:"full_name" validate:"required,min=2,max=120"`
	StudioSlug   string `json:"studio_slug" validate:"omitempty,max=100"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=32"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	StudioSlug string `json:"studio_slug" validate:"omitempty,max=100"`
}

type GoogleLoginRequest struct {
	IDToken    string `json:"id_token" validate:"required"`
	StudioSlug string `json:"studio_slug" validate:"omitempty,max=100"`
}

type SwitchStudioRequest struct {
	StudioID string `json:"studio_id" validate:"required,uuid"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type MembershipResponse struct {
	StudioID   uuid.UUID `json:"studio_id"`
	StudioSlug string    `json:"studio_slug"`
	StudioName string    `json:"studio_name"`
	Role       string    `json:"role"`
}

type SessionResponse struct {
	AccessToken      string       `json:"access_token"`
	RefreshToken     string       `json:"refresh_token"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	User             UserResponse `json:"user"`
	StudioID         *uuid.UUID   `json:"studio_id"`
	Role             string       `json:"role"`
}

type MeResponse struct {
	User        UserResponse         `json:"user"`
	StudioID    *uuid.UUID           `json:"studio_id"`
	Role        string               `json:"role"`
	Memberships []MembershipResponse `json:"memberships"`
}
