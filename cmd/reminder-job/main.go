// Command reminder-job sends next-day class reminders from AWS Lambda on a schedule.
package main

import (
	"context"
	"log"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"studiofit_backend/internals/configs"
	database "studiofit_backend/internals/databases"
	"studiofit_backend/internals/features/notifications/mailer"
	"studiofit_backend/internals/features/notifications/reminders/repository"
	"studiofit_backend/internals/features/notifications/reminders/service"
)

type Output struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func main() {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := configs.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	svc := service.New(repository.New(db), mailer.New(cfg.Resend.APIKey, cfg.Resend.From, logger), logger.Named("reminders"))

	lambda.Start(func(ctx context.Context) (Output, error) {
		rep, err := svc.SendNextDay(ctx)
		if err != nil {
			logger.Error("reminder job failed", zap.Error(err))
			return Output{}, err
		}
		logger.Info("reminder job done", zap.Int("sent", rep.Sent), zap.Int("failed", rep.Failed))
		return Output{Sent: rep.Sent, Failed: rep.Failed}, nil
	})
}
