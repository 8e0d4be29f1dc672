package dto

import (
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/availability/model"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

type CreateAvailabilityRequest struct {
	TrainerID    string `json:"trainer_id" validate:"omitempty,uuid"`
	DayOfWeek    *int16 `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime    string `json:"start_time" validate:"required,hhmm"`
	EndTime      string `json:"end_time" validate:"required,hhmm"`
	IsAvailable  *bool  `json:"is_available"`
	SpecificDate string `json:"specific_date" validate:"omitempty,ymd"`
}

func (r CreateAvailabilityRequest) ToModel(studioID, trainerID uuid.UUID) (*model.AvailabilityModel, error) {
	if !dbtime.EndsAfter(r.StartTime, r.EndTime) {
		return nil, helper.NewFieldError("end_time", "must be after start_time")
	}
	m := &model.AvailabilityModel{
		StudioID:    studioID,
		TrainerID:   trainerID,
		DayOfWeek:   *r.DayOfWeek,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsAvailable: true,
	}
	if r.IsAvailable != nil {
		m.IsAvailable = *r.IsAvailable
	}
	d, _ := dbtime.ParseDatePtr(r.SpecificDate)
	if d != nil {
		if int16(d.Weekday()) != m.DayOfWeek {
			return nil, helper.NewFieldError("specific_date", "does not fall on day_of_week")
		}
		m.SpecificDate = d
	}
	return m, nil
}

type UpdateAvailabilityRequest struct {
	DayOfWeek    *int16  `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime    *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime      *string `json:"end_time" validate:"omitempty,hhmm"`
	IsAvailable  *bool   `json:"is_available"`
	SpecificDate *string `json:"specific_date" validate:"omitempty,ymd"`
}

// Merge applies the patch onto a copy of cur and returns it with the column updates.
func (r UpdateAvailabilityRequest) Merge(cur model.AvailabilityModel) (model.AvailabilityModel, map[string]any, error) {
	u := map[string]any{}
	if r.DayOfWeek != nil {
		cur.DayOfWeek = *r.DayOfWeek
		u["day_of_week"] = cur.DayOfWeek
	}
	if r.StartTime != nil {
		cur.StartTime = *r.StartTime
		u["start_time"] = cur.StartTime
	}
	if r.EndTime != nil {
		cur.EndTime = *r.EndTime
		u["end_time"] = cur.EndTime
	}
	if r.IsAvailable != nil {
		cur.IsAvailable = *r.IsAvailable
		u["is_available"] = cur.IsAvailable
	}
	if r.SpecificDate != nil {
		d, _ := dbtime.ParseDatePtr(*r.SpecificDate)
		cur.SpecificDate = d
		u["specific_date"] = d
	}
	if !dbtime.EndsAfter(cur.StartTime, cur.EndTime) {
		return cur, nil, helper.NewFieldError("end_time", "must be after start_time")
	}
	if cur.SpecificDate != nil && int16(cur.SpecificDate.Weekday()) != cur.DayOfWeek {
		return cur, nil, helper.NewFieldError("specific_date", "does not fall on day_of_week")
	}
	return cur, u, nil
}
