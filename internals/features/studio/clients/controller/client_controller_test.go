package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/clients/dto"
	"studiofit_backend/internals/features/studio/clients/model"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type fakeRepo struct {
	rows     []*model.ClientModel
	trainers map[uuid.UUID]bool
}

func (f *fakeRepo) match(r *model.ClientModel, studioID uuid.UUID, scope *uuid.UUID) bool {
	if r.StudioID != studioID {
		return false
	}
	return scope == nil || (r.TrainerID != nil && *r.TrainerID == *scope)
}

func (f *fakeRepo) List(_ context.Context, studioID uuid.UUID, q dto.ListClientQuery, _ helper.Paging) ([]model.ClientModel, int64, error) {
	var out []model.ClientModel
	for _, r := range f.rows {
		if f.match(r, studioID, q.TrainerID) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Find(_ context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) (*model.ClientModel, error) {
	for _, r := range f.rows {
		if r.ID == id && f.match(r, studioID, scope) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Create(_ context.Context, m *model.ClientModel) error {
	m.ID = uuid.New()
	f.rows = append(f.rows, m)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID, updates map[string]any) error {
	r, err := f.Find(ctx, studioID, scope, id)
	if err != nil {
		return err
	}
	if s, ok := updates["status"].(string); ok {
		r.Status = s
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, studioID uuid.UUID, scope *uuid.UUID, id uuid.UUID) error {
	_, err := f.Find(ctx, studioID, scope, id)
	return err
}

func (f *fakeRepo) TrainerExists(_ context.Context, _, trainerID uuid.UUID) (bool, error) {
	return f.trainers[trainerID], nil
}

type fixture struct {
	studio, trainerUser, trainerID, otherTrainer uuid.UUID
	repo                                         *fakeRepo
	mine, theirs                                 *model.ClientModel
}

func newFixture() *fixture {
	f := &fixture{studio: uuid.New(), trainerUser: uuid.New(), trainerID: uuid.New(), otherTrainer: uuid.New()}
	f.mine = &model.ClientModel{ID: uuid.New(), StudioID: f.studio, TrainerID: &f.trainerID, FirstName: "Mine", Status: model.StatusPending}
	f.theirs = &model.ClientModel{ID: uuid.New(), StudioID: f.studio, TrainerID: &f.otherTrainer, FirstName: "Theirs", Status: model.StatusPending}
	f.repo = &fakeRepo{
		rows:     []*model.ClientModel{f.mine, f.theirs},
		trainers: map[uuid.UUID]bool{f.trainerID: true, f.otherTrainer: true},
	}
	return f
}

func (f *fixture) app(userID uuid.UUID, role string) *fiber.App {
	ctrl := NewClientController(f.repo, profiles.Static{Trainers: map[uuid.UUID]uuid.UUID{f.trainerUser: f.trainerID}})
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, userID)
		c.Locals(helper.LocStudioID, f.studio)
		c.Locals(helper.LocRole, role)
		return c.Next()
	})
	mountClientRoutes(app, ctrl)
	return app
}

func mountClientRoutes(app *fiber.App, ctrl *ClientController) {
	app.Get("/clients", ctrl.List)
	app.Post("/clients", ctrl.Create)
	app.Get("/clients/:id", ctrl.Get)
	app.Patch("/clients/:id/status", ctrl.UpdateStatus)
}

func listNames(t *testing.T, app *fiber.App) []string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/clients", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data []model.ClientModel `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	var names []string
	for _, c := range body.Data {
		names = append(names, c.FirstName)
	}
	return names
}

func TestTrainerSeesOnlyOwnClients(t *testing.T) {
	f := newFixture()
	assert.Equal(t, []string{"Mine"}, listNames(t, f.app(f.trainerUser, "trainer")))
	assert.ElementsMatch(t, []string{"Mine", "Theirs"}, listNames(t, f.app(uuid.New(), "admin")))
}

func TestTrainerCannotReadOtherTrainersClient(t *testing.T) {
	f := newFixture()
	app := f.app(f.trainerUser, "trainer")

	resp, err := app.Test(httptest.NewRequest("GET", "/clients/"+f.theirs.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/clients/"+f.mine.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTrainerWithoutProfileForbidden(t *testing.T) {
	f := newFixture()
	resp, err := f.app(uuid.New(), "trainer").Test(httptest.NewRequest("GET", "/clients", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestTrainerCreatedClientIsAssignedToThem(t *testing.T) {
	f := newFixture()
	app := f.app(f.trainerUser, "trainer")

	req := httptest.NewRequest("POST", "/clients",
		bytes.NewBufferString(`{"first_name":"New","email":"new@x.io","trainer_id":"`+f.otherTrainer.String()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := f.repo.rows[len(f.repo.rows)-1]
	require.NotNil(t, created.TrainerID)
	assert.Equal(t, f.trainerID, *created.TrainerID)
	assert.Equal(t, model.StatusPending, created.Status)
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	f := newFixture()
	app := f.app(uuid.New(), "admin")

	req := httptest.NewRequest("PATCH", "/clients/"+f.mine.ID.String()+"/status", bytes.NewBufferString(`{"status":"vip"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("PATCH", "/clients/"+f.mine.ID.String()+"/status", bytes.NewBufferString(`{"status":"enrolled"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.StatusEnrolled, f.mine.Status)
}
