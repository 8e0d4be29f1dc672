package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Exercise struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Sets        int      `json:"sets" validate:"min=1,max=50"`
	Reps        int      `json:"reps" validate:"min=1,max=500"`
	Weight      *float64 `json:"weight,omitempty" validate:"omitempty,min=0"`
	RestSeconds *int     `json:"rest_seconds,omitempty" validate:"omitempty,min=0,max=3600"`
}

type InstructionModel struct {
	ID        uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID  uuid.UUID                    `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	TrainerID *uuid.UUID                   `gorm:"column:trainer_id;type:uuid" json:"trainer_id"`
	ClientID  uuid.UUID                    `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	Title     string                       `gorm:"column:title;not null" json:"title"`
	Content   *string                      `gorm:"column:content" json:"content"`
	Exercises datatypes.JSONSlice[Exercise] `gorm:"column:exercises;type:jsonb;not null" json:"exercises"`
	CreatedAt time.Time                    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InstructionModel) TableName() string { return "training_instructions" }

type SetProgressModel struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudioID      uuid.UUID  `gorm:"column:studio_id;type:uuid;not null" json:"studio_id"`
	InstructionID *uuid.UUID `gorm:"column:instruction_id;type:uuid" json:"instruction_id"`
	ClientID      uuid.UUID  `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	ExerciseName  string     `gorm:"column:exercise_name;not null" json:"exercise_name"`
	SetNumber     int        `gorm:"column:set_number;not null" json:"set_number"`
	RepsCompleted int        `gorm:"column:reps_completed;not null" json:"reps_completed"`
	Weight        *float64   `gorm:"column:weight;type:numeric(8,2)" json:"weight"`
	Notes         *string    `gorm:"column:notes" json:"notes"`
	CompletedAt   time.Time  `gorm:"column:completed_at;not null" json:"completed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SetProgressModel) TableName() string { return "set_progress" }
