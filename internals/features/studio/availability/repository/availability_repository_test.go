package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"studiofit_backend/internals/features/studio/availability/model"
)

func slot(trainer uuid.UUID, dow int16, start, end string, date *time.Time) model.AvailabilityModel {
	return model.AvailabilityModel{ID: uuid.New(), TrainerID: trainer, DayOfWeek: dow, StartTime: start, EndTime: end, SpecificDate: date}
}

func TestFirstOverlap(t *testing.T) {
	tr := uuid.New()
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	existing := []model.AvailabilityModel{
		slot(tr, 1, "09:00", "12:00", nil),
		slot(tr, 1, "14:00", "15:00", &monday),
	}

	cases := []struct {
		name string
		in   model.AvailabilityModel
		want error
	}{
		{"inside recurring", slot(tr, 1, "10:00", "11:00", nil), ErrOverlap},
		{"touching edge", slot(tr, 1, "12:00", "13:00", nil), nil},
		{"other weekday", slot(tr, 2, "10:00", "11:00", nil), nil},
		{"other trainer", slot(uuid.New(), 1, "10:00", "11:00", nil), nil},
		{"dated vs recurring", slot(tr, 1, "10:00", "11:00", &monday), nil},
		{"same date", slot(tr, 1, "14:30", "16:00", &monday), ErrOverlap},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FirstOverlap(tc.in, existing))
		})
	}
}

func TestFirstOverlapIgnoresSelf(t *testing.T) {
	tr := uuid.New()
	cur := slot(tr, 3, "09:00", "10:00", nil)
	moved := cur
	moved.EndTime = "10:30"
	assert.NoError(t, FirstOverlap(moved, []model.AvailabilityModel{cur}))
}
