package exercises

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	helper "studiofit_backend/internals/helpers"
)

type stubRepo struct {
	rows []map[string]any
	err  error
}

func (s stubRepo) List(context.Context, string, helper.Paging) ([]map[string]any, error) {
	return s.rows, s.err
}

func get(t *testing.T, repo Repository) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	Routes(app, NewController(repo, zap.NewNop()))
	resp, err := app.Test(httptest.NewRequest("GET", "/exercises", nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestMissingTableIsNotAnError(t *testing.T) {
	err := fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "exercise_library" does not exist`})
	status, body := get(t, stubRepo{err: err})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, MsgNotConfigured, body["message"])
	assert.Equal(t, []any{}, body["data"])
}

func TestOtherErrorsStill500(t *testing.T) {
	status, _ := get(t, stubRepo{err: &pgconn.PgError{Code: "42703"}})
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestListRows(t *testing.T) {
	status, body := get(t, stubRepo{rows: []map[string]any{{"name": "Deadlift"}}})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)
}
