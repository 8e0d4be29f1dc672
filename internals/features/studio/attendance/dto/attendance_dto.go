package dto

import (
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/attendance/model"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

type MarkRequest struct {
	ClassID  string `json:"class_id" validate:"required,uuid"`
	ClientID string `json:"client_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,ymd"`
	Status   string `json:"status" validate:"required,oneof=present absent late excused"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

func (r MarkRequest) ToModel(studioID, markedBy uuid.UUID) model.AttendanceModel {
	d, _ := dbtime.ParseDate(r.Date)
	return model.AttendanceModel{
		StudioID:       studioID,
		ClassID:        uuid.MustParse(r.ClassID),
		ClientID:       uuid.MustParse(r.ClientID),
		AttendanceDate: d,
		Status:         r.Status,
		Notes:          helper.StrPtr(r.Notes),
		MarkedBy:       &markedBy,
	}
}

type BulkRecord struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
	Status   string `json:"status" validate:"required,oneof=present absent late excused"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

type BulkRequest struct {
	ClassID string       `json:"class_id" validate:"required,uuid"`
	Date    string       `json:"date" validate:"required,ymd"`
	Records []BulkRecord `json:"records" validate:"required,min=1,max=200,dive"`
}

// ToModels keeps the last record when a client appears twice; one statement can't upsert the same key twice.
func (r BulkRequest) ToModels(studioID, markedBy uuid.UUID) []model.AttendanceModel {
	d, _ := dbtime.ParseDate(r.Date)
	classID := uuid.MustParse(r.ClassID)
	idx := map[uuid.UUID]int{}
	out := make([]model.AttendanceModel, 0, len(r.Records))
	for _, rec := range r.Records {
		m := model.AttendanceModel{
			StudioID:       studioID,
			ClassID:        classID,
			ClientID:       uuid.MustParse(rec.ClientID),
			AttendanceDate: d,
			Status:         rec.Status,
			Notes:          helper.StrPtr(rec.Notes),
			MarkedBy:       &markedBy,
		}
		if i, ok := idx[m.ClientID]; ok {
			out[i] = m
			continue
		}
		idx[m.ClientID] = len(out)
		out = append(out, m)
	}
	return out
}

type ListQuery struct {
	ClassID  *uuid.UUID
	ClientID *uuid.UUID
	Date     *string
}
