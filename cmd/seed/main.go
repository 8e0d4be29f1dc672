// Command seed loads bundled reference data (currently the exercise library).
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"studiofit_backend/internals/configs"
	database "studiofit_backend/internals/databases"
	"studiofit_backend/internals/seeds"
)

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
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seeds.RunAllSeeds(ctx, db, logger); err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}
