package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/availability/dto"
	"studiofit_backend/internals/features/studio/availability/model"
	"studiofit_backend/internals/features/studio/availability/repository"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type AvailabilityController struct {
	repo     repository.Repository
	profiles profiles.Resolver
}

func NewAvailabilityController(repo repository.Repository, resolver profiles.Resolver) *AvailabilityController {
	return &AvailabilityController{repo: repo, profiles: resolver}
}

func (ctrl *AvailabilityController) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrOverlap) {
		return helper.JsonError(c, fiber.StatusConflict, "Availability overlaps an existing slot")
	}
	return helper.FromError(c, err)
}

// owned loads a row and checks a trainer caller owns it.
func (ctrl *AvailabilityController) owned(c *fiber.Ctx) (helper.Caller, *model.AvailabilityModel, error) {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return caller, nil, err
	}
	scope, err := profiles.TrainerScope(c.UserContext(), ctrl.profiles, caller)
	if err != nil {
		return caller, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return caller, nil, err
	}
	m, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return caller, nil, err
	}
	if scope != nil && m.TrainerID != *scope {
		return caller, nil, fiber.NewError(fiber.StatusForbidden, "You can only manage your own availability")
	}
	return caller, m, nil
}

// 🟢 GET /api/trainer-availability?trainer_id=&day_of_week=
func (ctrl *AvailabilityController) List(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	scope, err := profiles.TrainerScope(c.UserContext(), ctrl.profiles, caller)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := repository.ListQuery{TrainerID: scope}
	if scope == nil {
		if q.TrainerID, err = helper.ParseUUIDQuery(c, "trainer_id"); err != nil {
			return helper.FromError(c, err)
		}
	}
	if s := c.Query("day_of_week"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 || d > 6 {
			return helper.FromError(c, helper.NewFieldError("day_of_week", "must be between 0 and 6"))
		}
		dow := int16(d)
		q.DayOfWeek = &dow
	}
	rows, err := ctrl.repo.List(c.UserContext(), caller.StudioID, q)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// 🟢 POST /api/trainer-availability
func (ctrl *AvailabilityController) Create(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	scope, err := profiles.TrainerScope(c.UserContext(), ctrl.profiles, caller)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateAvailabilityRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	var trainerID uuid.UUID
	switch {
	case scope != nil:
		trainerID = *scope
		if req.TrainerID != "" && uuid.MustParse(req.TrainerID) != trainerID {
			return helper.JsonError(c, fiber.StatusForbidden, "You can only manage your own availability")
		}
	case req.TrainerID == "":
		return helper.FromError(c, helper.NewFieldError("trainer_id", "is required"))
	default:
		trainerID = uuid.MustParse(req.TrainerID)
	}

	m, err := req.ToModel(caller.StudioID, trainerID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.Create(c.UserContext(), m); err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonCreated(c, "Availability created", m)
}

// 🟡 PATCH /api/trainer-availability/:id
func (ctrl *AvailabilityController) Update(c *fiber.Ctx) error {
	_, cur, err := ctrl.owned(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateAvailabilityRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	merged, updates, err := req.Merge(*cur)
	if err != nil {
		return helper.FromError(c, err)
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	if err := ctrl.repo.Save(c.UserContext(), merged, updates); err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonUpdated(c, "Availability updated", merged)
}

// 🔴 DELETE /api/trainer-availability/:id
func (ctrl *AvailabilityController) Delete(c *fiber.Ctx) error {
	caller, m, err := ctrl.owned(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.Delete(c.UserContext(), caller.StudioID, m.ID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Availability deleted", fiber.Map{"id": m.ID})
}
