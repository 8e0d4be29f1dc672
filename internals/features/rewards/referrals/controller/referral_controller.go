package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/rewards/referrals/dto"
	"studiofit_backend/internals/features/rewards/referrals/repository"
	"studiofit_backend/internals/features/rewards/referrals/service"
	helper "studiofit_backend/internals/helpers"
)

const (
	MsgCodeTaken         = "Referral code already exists"
	MsgInvalidTransition = "Invalid referral status transition"
)

type ReferralController struct {
	svc  *service.Service
	repo repository.Repository
}

func NewReferralController(svc *service.Service, repo repository.Repository) *ReferralController {
	return &ReferralController{svc: svc, repo: repo}
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, MsgInvalidTransition)
	case errors.Is(err, repository.ErrMaxUsesBelowUsage):
		return helper.FromError(c, helper.NewFieldError("max_uses", "cannot be lower than current_uses"))
	case helper.PgErrorMessage(err) == MsgCodeTaken:
		return helper.JsonError(c, fiber.StatusConflict, MsgCodeTaken)
	}
	return helper.FromError(c, err)
}

// 🟢 GET /api/referrals/codes
func (ctrl *ReferralController) ListCodes(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ctrl.repo.ListCodes(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// 🟢 POST /api/referrals/codes
func (ctrl *ReferralController) CreateCode(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateCodeRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.svc.CreateCode(c.UserContext(), caller.StudioID, caller.UserID, req)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "Referral code created", m)
}

// 🟡 PATCH /api/referrals/codes/:id
func (ctrl *ReferralController) UpdateCode(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateCodeRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if req.Empty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	m, err := ctrl.repo.UpdateCode(c.UserContext(), caller.StudioID, caller.UserID, id, req.IsActive, req.MaxUses)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonUpdated(c, "Referral code updated", m)
}

// 🔴 DELETE /api/referrals/codes/:id
func (ctrl *ReferralController) DeleteCode(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.DeleteCode(c.UserContext(), caller.StudioID, caller.UserID, id); err != nil {
		return fail(c, err)
	}
	return helper.JsonDeleted(c, "Referral code deleted", fiber.Map{"id": id})
}

// 🟢 GET /api/referrals/validate/:code (public)
func (ctrl *ReferralController) Validate(c *fiber.Ctx) error {
	res, err := ctrl.svc.Validate(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

// 🟢 POST /api/referrals/track
func (ctrl *ReferralController) Track(c *fiber.Ctx) error {
	if _, err := helper.GetUserID(c); err != nil {
		return helper.FromError(c, err)
	}
	var req dto.TrackRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	row, err := ctrl.svc.Track(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "Referral tracked", row)
}

// 🟢 GET /api/referrals/tracking
func (ctrl *ReferralController) MyTracking(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.ListTracking(c.UserContext(), caller.StudioID, &caller.UserID, p)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/admin/referrals
func (ctrl *ReferralController) AdminList(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.ListTracking(c.UserContext(), caller.StudioID, nil, p)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 POST /api/referrals/tracking/:id/complete
func (ctrl *ReferralController) Complete(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	row, err := ctrl.svc.Complete(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Referral completed", row)
}

// 🟢 POST /api/referrals/tracking/:id/cancel
func (ctrl *ReferralController) Cancel(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	row, err := ctrl.svc.Cancel(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Referral cancelled", row)
}
