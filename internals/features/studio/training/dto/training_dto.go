package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"studiofit_backend/internals/features/studio/training/model"
	helper "studiofit_backend/internals/helpers"
)

type CreateInstructionRequest struct {
	ClientID  string           `json:"client_id" validate:"required,uuid"`
	TrainerID string           `json:"trainer_id" validate:"omitempty,uuid"`
	Title     string           `json:"title" validate:"required,max=200"`
	Content   string           `json:"content" validate:"omitempty,max=10000"`
	Exercises []model.Exercise `json:"exercises" validate:"max=100,dive"`
}

func (r CreateInstructionRequest) ToModel(studioID uuid.UUID) *model.InstructionModel {
	m := &model.InstructionModel{
		StudioID:  studioID,
		ClientID:  uuid.MustParse(r.ClientID),
		Title:     strings.TrimSpace(r.Title),
		Content:   helper.StrPtr(r.Content),
		Exercises: datatypes.NewJSONSlice(normalizeExercises(r.Exercises)),
	}
	if id, err := uuid.Parse(r.TrainerID); err == nil {
		m.TrainerID = &id
	}
	return m
}

type UpdateInstructionRequest struct {
	Title     *string           `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string           `json:"content" validate:"omitempty,max=10000"`
	Exercises *[]model.Exercise `json:"exercises" validate:"omitempty,max=100,dive"`
}

func (r UpdateInstructionRequest) Updates() map[string]any {
	u := map[string]any{}
	if r.Title != nil {
		u["title"] = strings.TrimSpace(*r.Title)
	}
	if r.Content != nil {
		u["content"] = helper.StrPtr(*r.Content)
	}
	if r.Exercises != nil {
		u["exercises"] = datatypes.NewJSONSlice(normalizeExercises(*r.Exercises))
	}
	return u
}

func normalizeExercises(in []model.Exercise) []model.Exercise {
	out := make([]model.Exercise, 0, len(in))
	for _, e := range in {
		e.Name = strings.TrimSpace(e.Name)
		out = append(out, e)
	}
	return out
}

type RecordSetRequest struct {
	InstructionID string   `json:"instruction_id" validate:"omitempty,uuid"`
	ExerciseName  string   `json:"exercise_name" validate:"required,max=120"`
	SetNumber     int      `json:"set_number" validate:"required,min=1,max=100"`
	RepsCompleted *int     `json:"reps_completed" validate:"required,min=0,max=1000"`
	Weight        *float64 `json:"weight" validate:"omitempty,min=0"`
	Notes         string   `json:"notes" validate:"omitempty,max=2000"`
}

func (r RecordSetRequest) ToModel(studioID, clientID uuid.UUID, now time.Time) *model.SetProgressModel {
	m := &model.SetProgressModel{
		StudioID:      studioID,
		ClientID:      clientID,
		ExerciseName:  strings.TrimSpace(r.ExerciseName),
		SetNumber:     r.SetNumber,
		RepsCompleted: *r.RepsCompleted,
		Weight:        r.Weight,
		Notes:         helper.StrPtr(r.Notes),
		CompletedAt:   now,
	}
	if id, err := uuid.Parse(r.InstructionID); err == nil {
		m.InstructionID = &id
	}
	return m
}

type InstructionQuery struct {
	ClientID     *uuid.UUID
	TrainerScope *uuid.UUID
}

type ProgressQuery struct {
	ClientID      *uuid.UUID
	InstructionID *uuid.UUID
	TrainerScope  *uuid.UUID
}
