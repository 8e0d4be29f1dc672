package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/studios/dto"
	"studiofit_backend/internals/features/studio/studios/repository"
	helper "studiofit_backend/internals/helpers"
)

type StudioController struct {
	repo repository.Repository
}

func NewStudioController(repo repository.Repository) *StudioController {
	return &StudioController{repo: repo}
}

// 🟢 GET /api/studio
func (ctrl *StudioController) GetCurrent(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := ctrl.repo.FindByID(c.UserContext(), caller.StudioID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", st)
}

// 🟡 PATCH /api/studio
func (ctrl *StudioController) UpdateCurrent(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStudioRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || strings.TrimSpace(*req.Timezone) == "" {
			return helper.FromError(c, helper.NewFieldError("timezone", "unknown time zone"))
		}
		updates["timezone"] = *req.Timezone
	}
	if req.ReminderHour != nil {
		updates["reminder_hour"] = *req.ReminderHour
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	if err := ctrl.repo.Update(c.UserContext(), caller.StudioID, updates); err != nil {
		return helper.FromError(c, err)
	}
	st, err := ctrl.repo.FindByID(c.UserContext(), caller.StudioID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Studio updated", st)
}

// 🟢 GET /api/public/studios/:slug
func (ctrl *StudioController) GetPublic(c *fiber.Ctx) error {
	st, err := ctrl.repo.FindBySlug(c.UserContext(), strings.TrimSpace(c.Params("slug")))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToPublic(st))
}

// 🟢 POST /api/admin/roles
func (ctrl *StudioController) GrantRole(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RoleRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	userID := uuid.MustParse(req.UserID)
	ok, err := ctrl.repo.UserExists(c.UserContext(), userID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	added, err := ctrl.repo.GrantRole(c.UserContext(), caller.StudioID, userID, req.Role)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Role granted", fiber.Map{"user_id": userID, "role": req.Role, "added": added})
}

// 🔴 DELETE /api/admin/roles
func (ctrl *StudioController) RevokeRole(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RoleRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	userID := uuid.MustParse(req.UserID)
	if userID == caller.UserID && req.Role == "admin" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Admins cannot revoke their own admin role")
	}
	n, err := ctrl.repo.RevokeRole(c.UserContext(), caller.StudioID, userID, req.Role)
	if err != nil {
		return helper.FromError(c, err)
	}
	if n == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Role not found")
	}
	return helper.JsonDeleted(c, "Role revoked", fiber.Map{"user_id": userID, "role": req.Role})
}
