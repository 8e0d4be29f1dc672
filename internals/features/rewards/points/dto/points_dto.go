package dto

import (
	"strings"

	"github.com/google/uuid"

	"studiofit_backend/internals/features/rewards/points/model"
	helper "studiofit_backend/internals/helpers"
)

type AdjustRequest struct {
	ClientID    string `json:"client_id" validate:"required,uuid"`
	Points      int    `json:"points" validate:"required,ne=0,min=-100000,max=100000"`
	Description string `json:"description" validate:"required,max=500"`
}

type ThresholdRequest struct {
	Name              string `json:"name" validate:"required,max=120"`
	PointsRequired    int    `json:"points_required" validate:"required,min=1"`
	RewardDescription string `json:"reward_description" validate:"omitempty,max=1000"`
	IsActive          *bool  `json:"is_active"`
}

func (r ThresholdRequest) ToModel(studioID uuid.UUID) *model.RewardThresholdModel {
	m := &model.RewardThresholdModel{
		StudioID:          studioID,
		Name:              strings.TrimSpace(r.Name),
		PointsRequired:    r.PointsRequired,
		RewardDescription: helper.StrPtr(r.RewardDescription),
		IsActive:          true,
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

type UpdateThresholdRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=120"`
	PointsRequired    *int    `json:"points_required" validate:"omitempty,min=1"`
	RewardDescription *string `json:"reward_description" validate:"omitempty,max=1000"`
	IsActive          *bool   `json:"is_active"`
}

func (r UpdateThresholdRequest) Updates() map[string]any {
	u := map[string]any{}
	if r.Name != nil {
		u["name"] = strings.TrimSpace(*r.Name)
	}
	if r.PointsRequired != nil {
		u["points_required"] = *r.PointsRequired
	}
	if r.RewardDescription != nil {
		u["reward_description"] = helper.StrPtr(*r.RewardDescription)
	}
	if r.IsActive != nil {
		u["is_active"] = *r.IsActive
	}
	return u
}

type PointsSummary struct {
	ClientID       uuid.UUID                     `json:"client_id"`
	Balance        int                           `json:"balance"`
	LifetimeEarned int                           `json:"lifetime_earned"`
	Transactions   []model.PointTransactionModel `json:"transactions"`
}
