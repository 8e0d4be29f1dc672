package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pointsRepo "studiofit_backend/internals/features/rewards/points/repository"
	pointsService "studiofit_backend/internals/features/rewards/points/service"
	"studiofit_backend/internals/features/rewards/referrals/model"
	"studiofit_backend/internals/features/rewards/referrals/repository"
	"studiofit_backend/internals/features/rewards/referrals/service"
	helper "studiofit_backend/internals/helpers"
)

type stubRepo struct {
	repository.Repository
	code *model.ReferralCodeModel
}

func (s *stubRepo) CreateCode(context.Context, uuid.UUID, uuid.UUID, string, *int, *time.Time) (*model.ReferralCodeModel, error) {
	return nil, &pgconn.PgError{Code: "P0001", Message: MsgCodeTaken}
}

func (s *stubRepo) UpdateCode(_ context.Context, _, _, _ uuid.UUID, _ *bool, maxUses *int) (*model.ReferralCodeModel, error) {
	if maxUses != nil && *maxUses < s.code.CurrentUses {
		return nil, repository.ErrMaxUsesBelowUsage
	}
	return s.code, nil
}

func (s *stubRepo) Complete(context.Context, uuid.UUID, uuid.UUID, int, time.Time) (*model.ReferralTrackingModel, *uuid.UUID, error) {
	return nil, nil, repository.ErrInvalidTransition
}

type noPoints struct{}

func (noPoints) AwardAndIssue(context.Context, pointsRepo.Award) (*pointsService.Outcome, error) {
	return &pointsService.Outcome{}, nil
}

func newApp(repo repository.Repository) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, uuid.New())
		c.Locals(helper.LocStudioID, uuid.New())
		c.Locals(helper.LocRole, "admin")
		return c.Next()
	})
	svc := service.New(repo, noPoints{}, 100, zap.NewNop())
	mount(api, NewReferralController(svc, repo))
	return app
}

// mount registers the routes under test.
func mount(api fiber.Router, ctrl *ReferralController) {
	api.Post("/referrals/codes", ctrl.CreateCode)
	api.Patch("/referrals/codes/:id", ctrl.UpdateCode)
	api.Post("/referrals/tracking/:id/complete", ctrl.Complete)
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, helper.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out helper.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCreateCode_TakenIsConflict(t *testing.T) {
	app := newApp(&stubRepo{})
	status, body := call(t, app, "POST", "/api/referrals/codes", `{"custom_code":"summer24"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, MsgCodeTaken, body.Message)
}

func TestUpdateCode_MaxUsesBelowCurrent(t *testing.T) {
	app := newApp(&stubRepo{code: &model.ReferralCodeModel{CurrentUses: 5}})
	status, body := call(t, app, "PATCH", "/api/referrals/codes/"+uuid.NewString(), `{"max_uses":3}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Errors, "max_uses")

	status, _ = call(t, app, "PATCH", "/api/referrals/codes/"+uuid.NewString(), `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestComplete_InvalidTransition(t *testing.T) {
	app := newApp(&stubRepo{})
	status, body := call(t, app, "POST", "/api/referrals/tracking/"+uuid.NewString()+"/complete", "")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, MsgInvalidTransition, body.Message)
}
