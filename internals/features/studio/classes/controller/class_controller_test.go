package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/classes/dto"
	"studiofit_backend/internals/features/studio/classes/model"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/middlewares/access"
)

type fakeRepo struct {
	rows   map[uuid.UUID]*model.ClassModel
	roster []model.RosterEntry
	date   time.Time
}

func (f *fakeRepo) List(_ context.Context, studioID uuid.UUID, _ dto.ListClassQuery, _ helper.Paging) ([]model.ClassModel, int64, error) {
	var out []model.ClassModel
	for _, r := range f.rows {
		if r.StudioID == studioID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Find(_ context.Context, studioID, id uuid.UUID) (*model.ClassModel, error) {
	r, ok := f.rows[id]
	if !ok || r.StudioID != studioID {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRepo) Create(_ context.Context, m *model.ClassModel) error {
	m.ID = uuid.New()
	f.rows[m.ID] = m
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, studioID, id uuid.UUID, _ map[string]any) error {
	_, err := f.Find(ctx, studioID, id)
	return err
}

func (f *fakeRepo) Delete(ctx context.Context, studioID, id uuid.UUID) error {
	_, err := f.Find(ctx, studioID, id)
	return err
}

func (f *fakeRepo) Roster(_ context.Context, _, _ uuid.UUID, date time.Time) ([]model.RosterEntry, error) {
	f.date = date
	return f.roster, nil
}

func (f *fakeRepo) TrainerExists(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return false, nil }

func (f *fakeRepo) StudioTimezone(context.Context, uuid.UUID) (string, error) { return "UTC", nil }

func newApp(t *testing.T, repo *fakeRepo, studioID uuid.UUID, role string) *fiber.App {
	t.Helper()
	table, err := access.Default()
	require.NoError(t, err)

	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, uuid.New())
		c.Locals(helper.LocStudioID, studioID)
		c.Locals(helper.LocRole, role)
		return c.Next()
	}, access.Enforce(table))

	ctrl := NewClassController(repo)
	api.Get("/classes", ctrl.List)
	api.Post("/classes", ctrl.Create)
	api.Patch("/classes/:id", ctrl.Update)
	api.Get("/classes/:id/roster", ctrl.Roster)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*classResponse, int) {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out classResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return &out, resp.StatusCode
}

type classResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    model.ClassModel    `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

const validClass = `{"name":"Morning Flow","start_time":"07:00","end_time":"08:00","price":0}`

func TestAdminCreatesClassWithOK(t *testing.T) {
	studioID := uuid.New()
	repo := &fakeRepo{rows: map[uuid.UUID]*model.ClassModel{}}
	app := newApp(t, repo, studioID, "admin")

	body, status := postJSON(t, app, "/api/classes", validClass)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Success)
	assert.NotEqual(t, uuid.Nil, body.Data.ID)
	assert.Equal(t, dto.DefaultCapacity, body.Data.MaxCapacity)
	assert.Equal(t, model.StatusActive, body.Data.Status)
	assert.Len(t, repo.rows, 1)
}

func TestClientCannotCreateClass(t *testing.T) {
	repo := &fakeRepo{rows: map[uuid.UUID]*model.ClassModel{}}
	app := newApp(t, repo, uuid.New(), "client")

	_, status := postJSON(t, app, "/api/classes", validClass)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Empty(t, repo.rows)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/classes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateClassRejectsBadTimes(t *testing.T) {
	app := newApp(t, &fakeRepo{rows: map[uuid.UUID]*model.ClassModel{}}, uuid.New(), "trainer")

	body, status := postJSON(t, app, "/api/classes", `{"name":"x","start_time":"09:00","end_time":"08:30"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Errors, "end_time")

	body, status = postJSON(t, app, "/api/classes", `{"name":"x","start_time":"9am","end_time":"10:00","max_capacity":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Errors, "start_time")
}

func TestCreateClassDerivesWeekday(t *testing.T) {
	repo := &fakeRepo{rows: map[uuid.UUID]*model.ClassModel{}}
	app := newApp(t, repo, uuid.New(), "admin")

	body, status := postJSON(t, app, "/api/classes",
		`{"name":"Sat Bootcamp","class_date":"2026-10-17","start_time":"10:00","end_time":"11:00"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, body.Data.DayOfWeek)
	assert.Equal(t, int16(time.Saturday), *body.Data.DayOfWeek)
}

func TestUpdateCapacityBelowEnrollment(t *testing.T) {
	studioID, id := uuid.New(), uuid.New()
	repo := &fakeRepo{rows: map[uuid.UUID]*model.ClassModel{
		id: {ID: id, StudioID: studioID, StartTime: "07:00", EndTime: "08:00", MaxCapacity: 10, CurrentEnrollment: 6},
	}}
	app := newApp(t, repo, studioID, "admin")

	req := httptest.NewRequest("PATCH", "/api/classes/"+id.String(), bytes.NewBufferString(`{"max_capacity":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRosterUsesClassDate(t *testing.T) {
	studioID, id := uuid.New(), uuid.New()
	day := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	present := "present"
	repo := &fakeRepo{
		rows: map[uuid.UUID]*model.ClassModel{
			id: {ID: id, StudioID: studioID, ClassDate: &day, StartTime: "07:00", EndTime: "08:00"},
		},
		roster: []model.RosterEntry{{ClientID: uuid.New(), FirstName: "Rae", Attendance: &present}},
	}
	app := newApp(t, repo, studioID, "trainer")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/classes/"+id.String()+"/roster", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, day, repo.date)

	var body struct {
		Data struct {
			Date    string              `json:"date"`
			Clients []model.RosterEntry `json:"clients"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2026-11-02", body.Data.Date)
	require.Len(t, body.Data.Clients, 1)
	assert.Equal(t, "present", *body.Data.Clients[0].Attendance)
}
