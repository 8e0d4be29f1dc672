package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/events/community/dto"
	"studiofit_backend/internals/features/events/community/repository"
	"studiofit_backend/internals/features/events/community/service"
	"studiofit_backend/internals/features/finance/payments/provider"
	helper "studiofit_backend/internals/helpers"
)

const (
	MsgAlreadyRegistered = "Already registered for this event"
	MsgEventFull         = "Event is at full capacity"
	MsgNotPending        = "Only unpaid registrations can be cancelled"
)

type CommunityController struct {
	repo repository.Repository
	svc  *service.Service
}

func NewCommunityController(repo repository.Repository, svc *service.Service) *CommunityController {
	return &CommunityController{repo: repo, svc: svc}
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return helper.JsonError(c, fiber.StatusConflict, MsgAlreadyRegistered)
	case errors.Is(err, repository.ErrEventFull):
		return helper.JsonError(c, fiber.StatusBadRequest, MsgEventFull)
	case errors.Is(err, provider.ErrDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Payments are not configured")
	case errors.Is(err, service.ErrNotPending):
		return helper.JsonError(c, fiber.StatusConflict, MsgNotPending)
	case errors.Is(err, service.ErrCheckout):
		return helper.JsonError(c, fiber.StatusBadGateway, "Could not start checkout")
	}
	return helper.FromError(c, err)
}

// 🟢 GET /api/public/community-events?studio=
func (ctrl *CommunityController) PublicList(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Query("studio"))
	if slug == "" {
		return helper.FromError(c, helper.NewFieldError("studio", "is required"))
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.ListPublic(c.UserContext(), slug, p)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/community-events
func (ctrl *CommunityController) List(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID, p)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/community-events/:id
func (ctrl *CommunityController) Get(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// 🟢 POST /api/community-events
func (ctrl *CommunityController) Create(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateEventRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := req.ToModel(caller.StudioID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.Create(c.UserContext(), m); err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "Event created", m)
}

// 🟢 PATCH /api/community-events/:id
func (ctrl *CommunityController) Update(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateEventRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	cur, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return fail(c, err)
	}
	updates, err := req.Apply(cur)
	if err != nil {
		return helper.FromError(c, err)
	}
	if len(updates) == 0 {
		return helper.JsonUpdated(c, "Nothing to update", cur)
	}
	m, err := ctrl.repo.Update(c.UserContext(), caller.StudioID, id, updates)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonUpdated(c, "Event updated", m)
}

// 🟢 DELETE /api/community-events/:id
func (ctrl *CommunityController) Delete(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.Delete(c.UserContext(), caller.StudioID, id); err != nil {
		return fail(c, err)
	}
	return helper.JsonDeleted(c, "Event deleted", fiber.Map{"id": id})
}

// 🟢 GET /api/community-events/:id/participants
func (ctrl *CommunityController) Participants(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if _, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id); err != nil {
		return fail(c, err)
	}
	rows, err := ctrl.repo.Participants(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// 🟢 POST /api/community-events/:id/register
func (ctrl *CommunityController) Register(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RegisterRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	out, err := ctrl.svc.Register(c.UserContext(), userID, id, req)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "Registered", out)
}

// 🟢 DELETE /api/community-events/:id/register
func (ctrl *CommunityController) CancelRegistration(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.svc.Cancel(c.UserContext(), userID, id); err != nil {
		return fail(c, err)
	}
	return helper.JsonDeleted(c, "Registration cancelled", fiber.Map{"event_id": id})
}
