package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"studiofit_backend/internals/features/notifications/reminders/dto"
)

type NextDaySender interface {
	SendNextDay(ctx context.Context) (*dto.Report, error)
}

// RegisterClassReminders schedules the next-day fan-out. An empty spec leaves it off.
// Overlapping runs are skipped.
func RegisterClassReminders(c *cron.Cron, spec string, sender NextDaySender, log *zap.Logger) (cron.EntryID, error) {
	if spec == "" {
		log.Info("class reminders disabled")
		return 0, nil
	}
	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{log})).Then(cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		rep, err := sender.SendNextDay(ctx)
		if err != nil {
			log.Error("class reminders failed", zap.Error(err))
			return
		}
		log.Info("class reminders sent", zap.Int("sent", rep.Sent), zap.Int("failed", rep.Failed))
	}))
	return c.AddJob(spec, job)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ log *zap.Logger }

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.Sugar().Infow(msg, kv...)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Sugar().Errorw(msg, append(kv, "error", err)...)
}

func CronLogger(log *zap.Logger) cron.Logger { return cronLogger{log} }
