package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/rewards/points/dto"
	"studiofit_backend/internals/features/rewards/points/repository"
	"studiofit_backend/internals/features/rewards/points/service"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type PointsController struct {
	svc      *service.Service
	repo     repository.Repository
	profiles profiles.Resolver
}

func NewPointsController(svc *service.Service, repo repository.Repository, resolver profiles.Resolver) *PointsController {
	return &PointsController{svc: svc, repo: repo, profiles: resolver}
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClientNotInStudio):
		return helper.JsonError(c, fiber.StatusNotFound, "Client not found")
	case errors.Is(err, repository.ErrRewardRedeemed):
		return helper.JsonError(c, fiber.StatusConflict, "Reward already redeemed")
	}
	return helper.FromError(c, err)
}

// 🟢 GET /api/client/points
func (ctrl *PointsController) MyPoints(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	sum, err := ctrl.svc.Summary(c.UserContext(), caller.StudioID, clientID)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}

// 🟢 GET /api/client/rewards
func (ctrl *PointsController) MyRewards(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ctrl.svc.Rewards(c.UserContext(), clientID)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// 🟢 POST /api/client/rewards/:id/redeem
func (ctrl *PointsController) Redeem(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	r, err := ctrl.svc.Redeem(c.UserContext(), clientID, id)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Reward redeemed", r)
}

// 🟢 GET /api/points/:client_id
func (ctrl *PointsController) ClientPoints(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := helper.ParseUUIDParam(c, "client_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	sum, err := ctrl.svc.Summary(c.UserContext(), caller.StudioID, clientID)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}

// 🟢 POST /api/points/adjust
func (ctrl *PointsController) Adjust(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AdjustRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.svc.Adjust(c.UserContext(), caller.StudioID, req)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Points adjusted", out)
}

/* ===============================
   Reward thresholds (admin)
=================================*/

// 🟢 GET /api/admin/reward-thresholds
func (ctrl *PointsController) ListThresholds(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ctrl.repo.ListThresholds(c.UserContext(), caller.StudioID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// 🟢 POST /api/admin/reward-thresholds
func (ctrl *PointsController) CreateThreshold(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ThresholdRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(caller.StudioID)
	if err := ctrl.repo.CreateThreshold(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Threshold created", m)
}

// 🟡 PATCH /api/admin/reward-thresholds/:id
func (ctrl *PointsController) UpdateThreshold(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateThresholdRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	m, err := ctrl.repo.UpdateThreshold(c.UserContext(), caller.StudioID, id, updates)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Threshold updated", m)
}

// 🔴 DELETE /api/admin/reward-thresholds/:id
func (ctrl *PointsController) DeleteThreshold(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.DeleteThreshold(c.UserContext(), caller.StudioID, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Threshold deleted", fiber.Map{"id": id})
}
