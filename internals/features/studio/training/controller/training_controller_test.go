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

	"studiofit_backend/internals/features/studio/profiles"
	"studiofit_backend/internals/features/studio/training/dto"
	"studiofit_backend/internals/features/studio/training/model"
	helper "studiofit_backend/internals/helpers"
)

type fakeRepo struct {
	visible      bool
	instructions []*model.InstructionModel
	sets         []*model.SetProgressModel
	lastQuery    dto.InstructionQuery
}

func (f *fakeRepo) ListInstructions(_ context.Context, _ uuid.UUID, q dto.InstructionQuery, _ helper.Paging) ([]model.InstructionModel, int64, error) {
	f.lastQuery = q
	var out []model.InstructionModel
	for _, m := range f.instructions {
		if q.ClientID == nil || m.ClientID == *q.ClientID {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) FindInstruction(context.Context, uuid.UUID, *uuid.UUID, uuid.UUID) (*model.InstructionModel, error) {
	return nil, nil
}

func (f *fakeRepo) CreateInstruction(_ context.Context, m *model.InstructionModel) error {
	m.ID = uuid.New()
	f.instructions = append(f.instructions, m)
	return nil
}

func (f *fakeRepo) UpdateInstruction(context.Context, uuid.UUID, *uuid.UUID, uuid.UUID, map[string]any) error {
	return nil
}

func (f *fakeRepo) DeleteInstruction(context.Context, uuid.UUID, *uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeRepo) ClientVisible(context.Context, uuid.UUID, *uuid.UUID, uuid.UUID) (bool, error) {
	return f.visible, nil
}

func (f *fakeRepo) RecordSet(_ context.Context, m *model.SetProgressModel) error {
	f.sets = append(f.sets, m)
	return nil
}

func (f *fakeRepo) ListProgress(context.Context, uuid.UUID, dto.ProgressQuery, helper.Paging) ([]model.SetProgressModel, int64, error) {
	return nil, 0, nil
}

func newApp(repo *fakeRepo, resolver profiles.Static, userID uuid.UUID, role string) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, userID)
		c.Locals(helper.LocStudioID, uuid.New())
		c.Locals(helper.LocRole, role)
		return c.Next()
	})
	ctrl := NewTrainingController(repo, resolver)
	api.Post("/training-instructions", ctrl.CreateInstruction)
	api.Get("/client/training-instructions", ctrl.MyInstructions)
	api.Post("/client/set-progress", ctrl.RecordSet)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) *fiber.Map {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := fiber.Map{"status": resp.StatusCode}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	out["status"] = resp.StatusCode
	return &out
}

func TestCreateInstructionStoresExercises(t *testing.T) {
	trainerUser, trainerID, clientID := uuid.New(), uuid.New(), uuid.New()
	repo := &fakeRepo{visible: true}
	app := newApp(repo, profiles.Static{Trainers: map[uuid.UUID]uuid.UUID{trainerUser: trainerID}}, trainerUser, "trainer")

	res := *post(t, app, "/api/training-instructions", `{
		"client_id":"`+clientID.String()+`","title":" Leg day ",
		"exercises":[{"name":"Squat","sets":5,"reps":5,"weight":80},{"name":"Lunge","sets":3,"reps":12}]}`)
	require.Equal(t, fiber.StatusCreated, res["status"])

	require.Len(t, repo.instructions, 1)
	m := repo.instructions[0]
	assert.Equal(t, "Leg day", m.Title)
	assert.Equal(t, trainerID, *m.TrainerID)
	require.Len(t, m.Exercises, 2)
	assert.Equal(t, 80.0, *m.Exercises[0].Weight)
	assert.Nil(t, m.Exercises[1].RestSeconds)
}

func TestCreateInstructionValidatesEachExercise(t *testing.T) {
	repo := &fakeRepo{visible: true}
	app := newApp(repo, profiles.Static{}, uuid.New(), "admin")

	res := *post(t, app, "/api/training-instructions",
		`{"client_id":"`+uuid.NewString()+`","title":"x","exercises":[{"name":"Row","sets":0,"reps":10}]}`)
	assert.Equal(t, fiber.StatusBadRequest, res["status"])
	assert.Empty(t, repo.instructions)
}

func TestCreateInstructionForInvisibleClient(t *testing.T) {
	app := newApp(&fakeRepo{visible: false}, profiles.Static{}, uuid.New(), "admin")
	res := *post(t, app, "/api/training-instructions", `{"client_id":"`+uuid.NewString()+`","title":"x","exercises":[]}`)
	assert.Equal(t, fiber.StatusNotFound, res["status"])
}

func TestClientRecordsOwnSet(t *testing.T) {
	userID, clientID := uuid.New(), uuid.New()
	repo := &fakeRepo{}
	app := newApp(repo, profiles.Static{Clients: map[uuid.UUID]uuid.UUID{userID: clientID}}, userID, "client")

	res := *post(t, app, "/api/client/set-progress", `{"exercise_name":"Squat","set_number":1,"reps_completed":0}`)
	require.Equal(t, fiber.StatusCreated, res["status"])
	require.Len(t, repo.sets, 1)
	assert.Equal(t, clientID, repo.sets[0].ClientID)
	assert.Equal(t, 0, repo.sets[0].RepsCompleted)
	assert.False(t, repo.sets[0].CompletedAt.IsZero())
}

func TestClientWithoutProfileCannotRecord(t *testing.T) {
	app := newApp(&fakeRepo{}, profiles.Static{}, uuid.New(), "client")
	res := *post(t, app, "/api/client/set-progress", `{"exercise_name":"Squat","set_number":1,"reps_completed":3}`)
	assert.Equal(t, fiber.StatusForbidden, res["status"])
}

func TestClientListsOnlyOwnInstructions(t *testing.T) {
	userID, clientID := uuid.New(), uuid.New()
	repo := &fakeRepo{}
	app := newApp(repo, profiles.Static{Clients: map[uuid.UUID]uuid.UUID{userID: clientID}}, userID, "client")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/client/training-instructions?client_id="+uuid.NewString(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, repo.lastQuery.ClientID)
	assert.Equal(t, clientID, *repo.lastQuery.ClientID)
}
