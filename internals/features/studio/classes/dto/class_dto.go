package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/classes/model"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

const DefaultCapacity = 10

type CreateClassRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description" validate:"omitempty,max=4000"`
	Location    string   `json:"location" validate:"omitempty,max=200"`
	ClassDate   string   `json:"class_date" validate:"omitempty,ymd"`
	DayOfWeek   *int16   `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime   string   `json:"start_time" validate:"required,hhmm"`
	EndTime     string   `json:"end_time" validate:"required,hhmm"`
	MaxCapacity *int     `json:"max_capacity" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	TrainerID   string   `json:"trainer_id" validate:"omitempty,uuid"`
}

// Check covers the cross-field rule the tags can't express.
func (r CreateClassRequest) Check() error {
	if !dbtime.EndsAfter(r.StartTime, r.EndTime) {
		return helper.NewFieldError("end_time", "must be after start_time")
	}
	return nil
}

func (r CreateClassRequest) ToModel(studioID uuid.UUID) *model.ClassModel {
	m := &model.ClassModel{
		StudioID:    studioID,
		Name:        strings.TrimSpace(r.Name),
		Description: helper.StrPtr(r.Description),
		Location:    helper.StrPtr(r.Location),
		DayOfWeek:   r.DayOfWeek,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MaxCapacity: DefaultCapacity,
		Status:      model.StatusActive,
	}
	if r.MaxCapacity != nil {
		m.MaxCapacity = *r.MaxCapacity
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if d, err := dbtime.ParseDate(r.ClassDate); err == nil {
		m.ClassDate = &d
		if m.DayOfWeek == nil {
			dow := int16(d.Weekday())
			m.DayOfWeek = &dow
		}
	}
	if id, err := uuid.Parse(r.TrainerID); err == nil {
		m.TrainerID = &id
	}
	return m
}

type UpdateClassRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string  `json:"description" validate:"omitempty,max=4000"`
	Location    *string  `json:"location" validate:"omitempty,max=200"`
	ClassDate   *string  `json:"class_date" validate:"omitempty,ymd"`
	DayOfWeek   *int16   `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime   *string  `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     *string  `json:"end_time" validate:"omitempty,hhmm"`
	MaxCapacity *int     `json:"max_capacity" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	TrainerID   *string  `json:"trainer_id" validate:"omitempty,uuid"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active cancelled"`
}

// Apply validates the patch against the stored row and returns the column updates.
func (r UpdateClassRequest) Apply(cur *model.ClassModel) (map[string]any, error) {
	u := map[string]any{}
	start, end := cur.StartTime, cur.EndTime
	if r.Name != nil {
		u["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		u["description"] = helper.StrPtr(*r.Description)
	}
	if r.Location != nil {
		u["location"] = helper.StrPtr(*r.Location)
	}
	if r.ClassDate != nil {
		d, _ := dbtime.ParseDate(*r.ClassDate)
		u["class_date"] = d
	}
	if r.DayOfWeek != nil {
		u["day_of_week"] = *r.DayOfWeek
	}
	if r.StartTime != nil {
		start = *r.StartTime
		u["start_time"] = start
	}
	if r.EndTime != nil {
		end = *r.EndTime
		u["end_time"] = end
	}
	if !dbtime.EndsAfter(start, end) {
		return nil, helper.NewFieldError("end_time", "must be after start_time")
	}
	if r.MaxCapacity != nil {
		if *r.MaxCapacity < cur.CurrentEnrollment {
			return nil, helper.NewFieldError("max_capacity", "cannot be below current enrollment")
		}
		u["max_capacity"] = *r.MaxCapacity
	}
	if r.Price != nil {
		u["price"] = *r.Price
	}
	if r.TrainerID != nil {
		u["trainer_id"] = uuid.MustParse(*r.TrainerID)
	}
	if r.Status != nil {
		u["status"] = *r.Status
	}
	return u, nil
}

type ListClassQuery struct {
	TrainerID *uuid.UUID
	Date      *time.Time
	Status    string
}
