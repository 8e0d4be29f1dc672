package exercises

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed data_exercises.json
var catalog []byte

type ExerciseSeed struct {
	Name        string `json:"name" gorm:"column:name"`
	Category    string `json:"category" gorm:"column:category"`
	MuscleGroup string `json:"muscle_group" gorm:"column:muscle_group"`
	Equipment   string `json:"equipment" gorm:"column:equipment"`
}

const createTable = `
CREATE TABLE IF NOT EXISTS exercise_library (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name         TEXT NOT NULL,
    category     TEXT NOT NULL DEFAULT '',
    muscle_group TEXT NOT NULL DEFAULT '',
    equipment    TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_exercise_library_name ON exercise_library (LOWER(name));`

// Catalog decodes the bundled exercise list, rejecting blank or repeated names.
func Catalog() ([]ExerciseSeed, error) {
	var rows []ExerciseSeed
	if err := json.Unmarshal(catalog, &rows); err != nil {
		return nil, fmt.Errorf("decode exercise catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if key == "" {
			return nil, fmt.Errorf("exercise #%d has no name", i)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("exercise %q listed twice", r.Name)
		}
		seen[key] = struct{}{}
	}
	return rows, nil
}

// SeedExercises provisions exercise_library and inserts the catalog; existing names are skipped.
func SeedExercises(ctx context.Context, db *gorm.DB, log *zap.Logger) (int64, error) {
	rows, err := Catalog()
	if err != nil {
		return 0, err
	}
	var inserted int64
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(createTable).Error; err != nil {
			return err
		}
		res := tx.Table("exercise_library").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rows)
		inserted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}
	log.Info("exercise library seeded", zap.Int("catalog", len(rows)), zap.Int64("inserted", inserted))
	return inserted, nil
}
