package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/attendance/model"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=x dbname=x sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestUpsertStatementTargetsNaturalKey(t *testing.T) {
	db := dryRunDB(t)
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	rows := []model.AttendanceModel{
		{StudioID: uuid.New(), ClassID: uuid.New(), ClientID: uuid.New(), AttendanceDate: day, Status: "present"},
		{StudioID: uuid.New(), ClassID: uuid.New(), ClientID: uuid.New(), AttendanceDate: day, Status: "late"},
	}

	stmt := db.Clauses(UpsertClause()).Create(&rows).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `INSERT INTO "attendance"`)
	assert.Contains(t, sql, `ON CONFLICT ("class_id","client_id","attendance_date") DO UPDATE SET`)
	assert.Contains(t, sql, `"status"="excluded"."status"`)
	assert.Contains(t, sql, `"notes"="excluded"."notes"`)
	assert.NotContains(t, sql, `"studio_id"="excluded"`)
	// both rows in one statement
	assert.Equal(t, 1, strings.Count(sql, "),("))
}
