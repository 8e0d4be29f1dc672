package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/profiles"
	"studiofit_backend/internals/features/studio/training/dto"
	"studiofit_backend/internals/features/studio/training/repository"
	helper "studiofit_backend/internals/helpers"
)

type TrainingController struct {
	repo     repository.Repository
	profiles profiles.Resolver
	now      func() time.Time
}

func NewTrainingController(repo repository.Repository, resolver profiles.Resolver) *TrainingController {
	return &TrainingController{repo: repo, profiles: resolver, now: time.Now}
}

func (ctrl *TrainingController) staff(c *fiber.Ctx) (helper.Caller, *uuid.UUID, error) {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return caller, nil, err
	}
	scope, err := profiles.TrainerScope(c.UserContext(), ctrl.profiles, caller)
	return caller, scope, err
}

func (ctrl *TrainingController) client(c *fiber.Ctx) (helper.Caller, uuid.UUID, error) {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return caller, uuid.Nil, err
	}
	id, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	return caller, id, err
}

/* ===============================
   Instructions (staff)
=================================*/

// 🟢 GET /api/training-instructions?client_id=
func (ctrl *TrainingController) ListInstructions(c *fiber.Ctx) error {
	caller, scope, err := ctrl.staff(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := dto.InstructionQuery{TrainerScope: scope}
	if q.ClientID, err = helper.ParseUUIDQuery(c, "client_id"); err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.ListInstructions(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/training-instructions/:id
func (ctrl *TrainingController) GetInstruction(c *fiber.Ctx) error {
	caller, scope, err := ctrl.staff(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.repo.FindInstruction(c.UserContext(), caller.StudioID, scope, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// 🟢 POST /api/training-instructions
func (ctrl *TrainingController) CreateInstruction(c *fiber.Ctx) error {
	caller, scope, err := ctrl.staff(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateInstructionRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(caller.StudioID)
	ok, err := ctrl.repo.ClientVisible(c.UserContext(), caller.StudioID, scope, m.ClientID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Client not found")
	}
	if scope != nil {
		m.TrainerID = scope
	}
	if err := ctrl.repo.CreateInstruction(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Instruction created", m)
}

// 🟡 PATCH /api/training-instructions/:id
func (ctrl *TrainingController) UpdateInstruction(c *fiber.Ctx) error {
	caller, scope, err := ctrl.staff(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateInstructionRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	if err := ctrl.repo.UpdateInstruction(c.UserContext(), caller.StudioID, scope, id, updates); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.repo.FindInstruction(c.UserContext(), caller.StudioID, scope, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Instruction updated", m)
}

// 🔴 DELETE /api/training-instructions/:id
func (ctrl *TrainingController) DeleteInstruction(c *fiber.Ctx) error {
	caller, scope, err := ctrl.staff(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.DeleteInstruction(c.UserContext(), caller.StudioID, scope, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Instruction deleted", fiber.Map{"id": id})
}

// 🟢 GET /api/set-progress?client_id=&instruction_id=
func (ctrl *TrainingController) ListProgress(c *fiber.Ctx) error {
	caller, scope, err := ctrl.staff(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := dto.ProgressQuery{TrainerScope: scope}
	if q.ClientID, err = helper.ParseUUIDQuery(c, "client_id"); err != nil {
		return helper.FromError(c, err)
	}
	if q.InstructionID, err = helper.ParseUUIDQuery(c, "instruction_id"); err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.ListProgress(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

/* ===============================
   Client self-service
=================================*/

// 🟢 GET /api/client/training-instructions
func (ctrl *TrainingController) MyInstructions(c *fiber.Ctx) error {
	caller, clientID, err := ctrl.client(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.ListInstructions(c.UserContext(), caller.StudioID, dto.InstructionQuery{ClientID: &clientID}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 POST /api/client/set-progress
func (ctrl *TrainingController) RecordSet(c *fiber.Ctx) error {
	caller, clientID, err := ctrl.client(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RecordSetRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(caller.StudioID, clientID, ctrl.now())
	if err := ctrl.repo.RecordSet(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Set recorded", m)
}

// 🟢 GET /api/client/set-progress?instruction_id=
func (ctrl *TrainingController) MyProgress(c *fiber.Ctx) error {
	caller, clientID, err := ctrl.client(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := dto.ProgressQuery{ClientID: &clientID}
	if q.InstructionID, err = helper.ParseUUIDQuery(c, "instruction_id"); err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.ListProgress(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}
