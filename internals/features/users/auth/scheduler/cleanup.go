package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Cleaner interface {
	CleanupExpired(ctx context.Context) error
}

// RegisterTokenCleanup runs blacklist and refresh-token cleanup on spec (e.g. "@hourly").
func RegisterTokenCleanup(c *cron.Cron, spec string, cleaner Cleaner, log *zap.Logger) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := cleaner.CleanupExpired(ctx); err != nil {
			log.Error("token cleanup failed", zap.Error(err))
		}
	})
}
