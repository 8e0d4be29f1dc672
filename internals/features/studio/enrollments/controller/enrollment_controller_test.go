package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/enrollments/dto"
	"studiofit_backend/internals/features/studio/enrollments/model"
	"studiofit_backend/internals/features/studio/enrollments/repository"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type seats struct{ cur, max int }

// memRepo mirrors the SQL rules: conditional increment, one live enrollment per pair.
type memRepo struct {
	mu      sync.Mutex
	classes map[uuid.UUID]*seats
	rows    map[uuid.UUID]*model.EnrollmentModel
}

func newMemRepo() *memRepo {
	return &memRepo{classes: map[uuid.UUID]*seats{}, rows: map[uuid.UUID]*model.EnrollmentModel{}}
}

func (m *memRepo) Enroll(_ context.Context, studioID, classID, clientID uuid.UUID, now time.Time) (*model.EnrollmentModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cls, ok := m.classes[classID]
	if !ok {
		return nil, repository.ErrClassNotFound
	}
	for _, r := range m.rows {
		if r.ClassID == classID && r.ClientID == clientID && model.Occupies(r.Status) {
			return nil, repository.ErrAlreadyEnrolled
		}
	}
	if cls.cur >= cls.max {
		return nil, repository.ErrClassFull
	}
	cls.cur++
	e := &model.EnrollmentModel{ID: uuid.New(), StudioID: studioID, ClassID: classID, ClientID: clientID,
		Status: model.StatusActive, PaymentStatus: model.PaymentPaid, EnrolledAt: now}
	m.rows[e.ID] = e
	return e, nil
}

func (m *memRepo) SetStatus(_ context.Context, _, id uuid.UUID, status string) (*model.EnrollmentModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cls := m.classes[e.ClassID]
	was, will := model.Occupies(e.Status), model.Occupies(status)
	switch {
	case was && !will:
		cls.cur--
	case !was && will:
		if cls.cur >= cls.max {
			return nil, repository.ErrClassFull
		}
		cls.cur++
	}
	e.Status = status
	return e, nil
}

func (m *memRepo) List(context.Context, uuid.UUID, dto.ListQuery, helper.Paging) ([]model.EnrollmentView, int64, error) {
	return nil, 0, nil
}

type result struct {
	status int
	body   struct {
		Message string                `json:"message"`
		Data    model.EnrollmentModel `json:"data"`
	}
}

func do(t *testing.T, app *fiber.App, method, path, body string) result {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var r result
	r.status = resp.StatusCode
	_ = json.NewDecoder(resp.Body).Decode(&r.body)
	return r
}

func newApp(repo repository.Repository, resolver profiles.Resolver, userID uuid.UUID, role string) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, userID)
		c.Locals(helper.LocStudioID, uuid.New())
		c.Locals(helper.LocRole, role)
		return c.Next()
	})
	ctrl := NewEnrollmentController(repo, resolver)
	api.Post("/enrollments", ctrl.Create)
	api.Patch("/enrollments/:id", ctrl.UpdateStatus)
	api.Post("/client/enrollments", ctrl.SelfEnroll)
	return app
}

func enrollBody(classID, clientID uuid.UUID) string {
	return `{"class_id":"` + classID.String() + `","client_id":"` + clientID.String() + `"}`
}

func TestFullClassRejectsWith400(t *testing.T) {
	repo := newMemRepo()
	classID := uuid.New()
	repo.classes[classID] = &seats{cur: 0, max: 1}
	app := newApp(repo, profiles.Static{}, uuid.New(), "admin")

	first := do(t, app, "POST", "/api/enrollments", enrollBody(classID, uuid.New()))
	require.Equal(t, fiber.StatusCreated, first.status)
	assert.Equal(t, model.StatusActive, first.body.Data.Status)

	second := do(t, app, "POST", "/api/enrollments", enrollBody(classID, uuid.New()))
	assert.Equal(t, fiber.StatusBadRequest, second.status)
	assert.Equal(t, MsgClassFull, second.body.Message)
	assert.Equal(t, 1, repo.classes[classID].cur)
}

func TestDuplicateEnrollmentConflicts(t *testing.T) {
	repo := newMemRepo()
	classID, clientID := uuid.New(), uuid.New()
	repo.classes[classID] = &seats{max: 5}
	app := newApp(repo, profiles.Static{}, uuid.New(), "trainer")

	require.Equal(t, fiber.StatusCreated, do(t, app, "POST", "/api/enrollments", enrollBody(classID, clientID)).status)
	dup := do(t, app, "POST", "/api/enrollments", enrollBody(classID, clientID))
	assert.Equal(t, fiber.StatusConflict, dup.status)
	assert.Equal(t, MsgAlreadyEnrolled, dup.body.Message)
}

func TestCancelReleasesSeat(t *testing.T) {
	repo := newMemRepo()
	classID := uuid.New()
	repo.classes[classID] = &seats{max: 1}
	app := newApp(repo, profiles.Static{}, uuid.New(), "admin")

	first := do(t, app, "POST", "/api/enrollments", enrollBody(classID, uuid.New()))
	require.Equal(t, fiber.StatusCreated, first.status)

	cancel := do(t, app, "PATCH", "/api/enrollments/"+first.body.Data.ID.String(), `{"status":"cancelled"}`)
	require.Equal(t, fiber.StatusOK, cancel.status)
	assert.Equal(t, 0, repo.classes[classID].cur)

	again := do(t, app, "POST", "/api/enrollments", enrollBody(classID, uuid.New()))
	assert.Equal(t, fiber.StatusCreated, again.status)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	app := newApp(newMemRepo(), profiles.Static{}, uuid.New(), "admin")
	res := do(t, app, "PATCH", "/api/enrollments/"+uuid.NewString(), `{"status":"paused"}`)
	assert.Equal(t, fiber.StatusBadRequest, res.status)
}

func TestUnknownClass404(t *testing.T) {
	app := newApp(newMemRepo(), profiles.Static{}, uuid.New(), "admin")
	res := do(t, app, "POST", "/api/enrollments", enrollBody(uuid.New(), uuid.New()))
	assert.Equal(t, fiber.StatusNotFound, res.status)
}

func TestClientSelfEnrollUsesOwnRecord(t *testing.T) {
	repo := newMemRepo()
	classID, userID, clientID := uuid.New(), uuid.New(), uuid.New()
	repo.classes[classID] = &seats{max: 3}
	app := newApp(repo, profiles.Static{Clients: map[uuid.UUID]uuid.UUID{userID: clientID}}, userID, "client")

	res := do(t, app, "POST", "/api/client/enrollments", `{"class_id":"`+classID.String()+`"}`)
	require.Equal(t, fiber.StatusCreated, res.status)
	assert.Equal(t, clientID, res.body.Data.ClientID)
}

func TestConcurrentEnrollNeverOverbooks(t *testing.T) {
	repo := newMemRepo()
	classID := uuid.New()
	repo.classes[classID] = &seats{max: 3}
	app := newApp(repo, profiles.Static{}, uuid.New(), "admin")

	var wg sync.WaitGroup
	codes := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- do(t, app, "POST", "/api/enrollments", enrollBody(classID, uuid.New())).status
		}()
	}
	wg.Wait()
	close(codes)

	ok, full := 0, 0
	for code := range codes {
		switch code {
		case fiber.StatusCreated:
			ok++
		case fiber.StatusBadRequest:
			full++
		}
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, full)
	assert.Equal(t, 3, repo.classes[classID].cur)
}
