package scheduler

import (
	"context"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studiofit_backend/internals/features/notifications/reminders/dto"
)

type countingSender struct{ calls int }

func (s *countingSender) SendNextDay(context.Context) (*dto.Report, error) {
	s.calls++
	return &dto.Report{Sent: 1}, nil
}

func TestRegisterClassReminders(t *testing.T) {
	c := cron.New()
	s := &countingSender{}

	id, err := RegisterClassReminders(c, "", s, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, c.Entries())

	id, err = RegisterClassReminders(c, "0 18 * * *", s, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	c.Entry(id).Job.Run()
	assert.Equal(t, 1, s.calls)
}

func TestRegisterClassReminders_BadSpec(t *testing.T) {
	_, err := RegisterClassReminders(cron.New(), "not a spec", &countingSender{}, zap.NewNop())
	assert.Error(t, err)
}
