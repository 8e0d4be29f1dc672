package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/configs"
	"studiofit_backend/internals/features/media"
	"studiofit_backend/internals/features/studio/trainers/dto"
	"studiofit_backend/internals/features/studio/trainers/model"
	helper "studiofit_backend/internals/helpers"
)

type fakeRepo struct {
	rows map[uuid.UUID]*model.TrainerModel
}

func (f *fakeRepo) List(_ context.Context, studioID uuid.UUID, _ dto.ListTrainerQuery, _ helper.Paging) ([]model.TrainerModel, int64, error) {
	var out []model.TrainerModel
	for _, r := range f.rows {
		if r.StudioID == studioID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Find(_ context.Context, studioID, id uuid.UUID) (*model.TrainerModel, error) {
	r, ok := f.rows[id]
	if !ok || r.StudioID != studioID {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRepo) Create(_ context.Context, m *model.TrainerModel) error {
	m.ID = uuid.New()
	f.rows[m.ID] = m
	return nil
}

func (f *fakeRepo) Update(_ context.Context, studioID, id uuid.UUID, updates map[string]any) error {
	r, ok := f.rows[id]
	if !ok || r.StudioID != studioID {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["avatar_url"].(string); ok {
		r.AvatarURL = &v
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, studioID, id uuid.UUID) error {
	if _, err := f.Find(context.Background(), studioID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

type memStore struct {
	keys []string
}

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

func newApp(repo *fakeRepo, store media.Store, studioID uuid.UUID) *fiber.App {
	ctrl := NewTrainerController(repo, store, zap.NewNop())
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, uuid.New())
		c.Locals(helper.LocStudioID, studioID)
		c.Locals(helper.LocRole, "admin")
		return c.Next()
	})
	app.Get("/trainers", ctrl.List)
	app.Post("/admin/trainers", ctrl.Create)
	app.Post("/admin/trainers/:id/avatar", ctrl.UploadAvatar)
	return app
}

func pngUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "a.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestCreateTrainerValidation(t *testing.T) {
	studioID := uuid.New()
	app := newApp(&fakeRepo{rows: map[uuid.UUID]*model.TrainerModel{}}, &memStore{}, studioID)

	req := httptest.NewRequest("POST", "/admin/trainers", bytes.NewBufferString(`{"first_name":"","email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body helper.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, helper.MsgValidationFailed, body.Message)
	assert.Contains(t, body.Errors, "first_name")
	assert.Contains(t, body.Errors, "email")
}

func TestCreateTrainerDedupesSpecialties(t *testing.T) {
	studioID := uuid.New()
	repo := &fakeRepo{rows: map[uuid.UUID]*model.TrainerModel{}}
	app := newApp(repo, &memStore{}, studioID)

	req := httptest.NewRequest("POST", "/admin/trainers",
		bytes.NewBufferString(`{"first_name":"Ana","email":"ANA@x.io","specialties":["Yoga"," yoga","HIIT"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Len(t, repo.rows, 1)
	for _, r := range repo.rows {
		assert.Equal(t, "ana@x.io", r.Email)
		assert.Equal(t, []string{"Yoga", "HIIT"}, []string(r.Specialties))
		assert.Equal(t, studioID, r.StudioID)
	}
}

func TestUploadAvatarStoresWebp(t *testing.T) {
	studioID, trainerID := uuid.New(), uuid.New()
	repo := &fakeRepo{rows: map[uuid.UUID]*model.TrainerModel{
		trainerID: {ID: trainerID, StudioID: studioID, FirstName: "Ana"},
	}}
	store := &memStore{}
	app := newApp(repo, store, studioID)

	body, ct := pngUpload(t)
	req := httptest.NewRequest("POST", "/admin/trainers/"+trainerID.String()+"/avatar", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, store.keys, 1)
	assert.Contains(t, store.keys[0], trainerID.String())
	require.NotNil(t, repo.rows[trainerID].AvatarURL)
	assert.Equal(t, "https://cdn.test/"+store.keys[0], *repo.rows[trainerID].AvatarURL)
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	studioID, trainerID := uuid.New(), uuid.New()
	repo := &fakeRepo{rows: map[uuid.UUID]*model.TrainerModel{
		trainerID: {ID: trainerID, StudioID: studioID},
	}}
	store, err := media.NewStore(context.Background(), configs.StorageConfig{})
	require.NoError(t, err)
	app := newApp(repo, store, studioID)

	body, ct := pngUpload(t)
	req := httptest.NewRequest("POST", "/admin/trainers/"+trainerID.String()+"/avatar", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Nil(t, repo.rows[trainerID].AvatarURL)
}

func TestUploadAvatarOtherStudio(t *testing.T) {
	trainerID := uuid.New()
	repo := &fakeRepo{rows: map[uuid.UUID]*model.TrainerModel{
		trainerID: {ID: trainerID, StudioID: uuid.New()},
	}}
	app := newApp(repo, &memStore{}, uuid.New())

	body, ct := pngUpload(t)
	req := httptest.NewRequest("POST", "/admin/trainers/"+trainerID.String()+"/avatar", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
