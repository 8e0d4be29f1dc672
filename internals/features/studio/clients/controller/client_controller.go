package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/clients/dto"
	"studiofit_backend/internals/features/studio/clients/repository"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type ClientController struct {
	repo     repository.Repository
	profiles profiles.Resolver
}

func NewClientController(repo repository.Repository, resolver profiles.Resolver) *ClientController {
	return &ClientController{repo: repo, profiles: resolver}
}

// scope resolves the caller and, for trainers, their own trainer id.
func (ctrl *ClientController) scope(c *fiber.Ctx) (helper.Caller, *uuid.UUID, error) {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return caller, nil, err
	}
	s, err := profiles.TrainerScope(c.UserContext(), ctrl.profiles, caller)
	return caller, s, err
}

// 🟢 GET /api/clients
func (ctrl *ClientController) List(c *fiber.Ctx) error {
	caller, scope, err := ctrl.scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := dto.ListClientQuery{
		TrainerID: scope,
		Status:    strings.TrimSpace(c.Query("status")),
		Search:    strings.TrimSpace(c.Query("q")),
	}
	if scope == nil {
		if q.TrainerID, err = helper.ParseUUIDQuery(c, "trainer_id"); err != nil {
			return helper.FromError(c, err)
		}
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/clients/:id
func (ctrl *ClientController) Get(c *fiber.Ctx) error {
	caller, scope, err := ctrl.scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, scope, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// 🟢 POST /api/clients
func (ctrl *ClientController) Create(c *fiber.Ctx) error {
	caller, scope, err := ctrl.scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateClientRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(caller.StudioID)
	switch {
	case scope != nil:
		// trainers always create their own clients
		m.TrainerID = scope
	case m.TrainerID != nil:
		if err := ctrl.checkTrainer(c, caller.StudioID, *m.TrainerID); err != nil {
			return helper.FromError(c, err)
		}
	}
	if err := ctrl.repo.Create(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Client created", m)
}

// 🟡 PATCH /api/clients/:id
func (ctrl *ClientController) Update(c *fiber.Ctx) error {
	var req dto.UpdateClientRequest
	return ctrl.patch(c, &req, func() (map[string]any, error) {
		return req.Updates(), nil
	}, "Client updated")
}

// 🟡 PATCH /api/clients/:id/status
func (ctrl *ClientController) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	return ctrl.patch(c, &req, func() (map[string]any, error) {
		return map[string]any{"status": req.Status}, nil
	}, "Client status updated")
}

// 🟡 PATCH /api/clients/:id/trainer
func (ctrl *ClientController) AssignTrainer(c *fiber.Ctx) error {
	var req dto.AssignTrainerRequest
	return ctrl.patch(c, &req, func() (map[string]any, error) {
		if req.TrainerID == "" {
			return map[string]any{"trainer_id": nil}, nil
		}
		tid := uuid.MustParse(req.TrainerID)
		caller, _ := helper.GetCaller(c)
		if err := ctrl.checkTrainer(c, caller.StudioID, tid); err != nil {
			return nil, err
		}
		return map[string]any{"trainer_id": tid}, nil
	}, "Trainer assigned")
}

// 🔴 DELETE /api/clients/:id
func (ctrl *ClientController) Delete(c *fiber.Ctx) error {
	caller, scope, err := ctrl.scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.Delete(c.UserContext(), caller.StudioID, scope, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Client deleted", fiber.Map{"id": id})
}

func (ctrl *ClientController) patch(c *fiber.Ctx, req any, build func() (map[string]any, error), msg string) error {
	caller, scope, err := ctrl.scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := helper.BindAndValidate(c, req); err != nil {
		return helper.FromError(c, err)
	}
	updates, err := build()
	if err != nil {
		return helper.FromError(c, err)
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	if err := ctrl.repo.Update(c.UserContext(), caller.StudioID, scope, id, updates); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, nil, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, msg, m)
}

func (ctrl *ClientController) checkTrainer(c *fiber.Ctx, studioID, trainerID uuid.UUID) error {
	ok, err := ctrl.repo.TrainerExists(c.UserContext(), studioID, trainerID)
	if err != nil {
		return err
	}
	if !ok {
		return helper.NewFieldError("trainer_id", "trainer not found in this studio")
	}
	return nil
}

