package seeds

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/seeds/exercises"
)

func RunAllSeeds(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	//* Exercise library
	if _, err := exercises.SeedExercises(ctx, db, log.Named("seed.exercises")); err != nil {
		return err
	}
	return nil
}
