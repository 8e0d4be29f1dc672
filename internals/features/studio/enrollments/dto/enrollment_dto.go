package dto

import "github.com/google/uuid"

type CreateEnrollmentRequest struct {
	ClassID  string `json:"class_id" validate:"required,uuid"`
	ClientID string `json:"client_id" validate:"required,uuid"`
}

type SelfEnrollRequest struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active enrolled completed cancelled"`
}

type ListQuery struct {
	ClassID  *uuid.UUID
	ClientID *uuid.UUID
	Upcoming bool
}
