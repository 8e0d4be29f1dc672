package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/enrollments/dto"
	"studiofit_backend/internals/features/studio/enrollments/repository"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

const (
	MsgAlreadyEnrolled = "Client is already enrolled in this class"
	MsgClassFull       = "Class is at full capacity"
)

type EnrollmentController struct {
	repo     repository.Repository
	profiles profiles.Resolver
	now      func() time.Time
}

func NewEnrollmentController(repo repository.Repository, resolver profiles.Resolver) *EnrollmentController {
	return &EnrollmentController{repo: repo, profiles: resolver, now: time.Now}
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrClassNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found or inactive")
	case errors.Is(err, repository.ErrClientNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Client not found")
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		return helper.JsonError(c, fiber.StatusConflict, MsgAlreadyEnrolled)
	case errors.Is(err, repository.ErrClassFull):
		return helper.JsonError(c, fiber.StatusBadRequest, MsgClassFull)
	}
	return helper.FromError(c, err)
}

// 🟢 POST /api/enrollments
func (ctrl *EnrollmentController) Create(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateEnrollmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	e, err := ctrl.repo.Enroll(c.UserContext(), caller.StudioID, uuid.MustParse(req.ClassID), uuid.MustParse(req.ClientID), ctrl.now())
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "Client enrolled", e)
}

// 🟢 POST /api/client/enrollments
func (ctrl *EnrollmentController) SelfEnroll(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SelfEnrollRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	e, err := ctrl.repo.Enroll(c.UserContext(), caller.StudioID, uuid.MustParse(req.ClassID), clientID, ctrl.now())
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "Enrolled", e)
}

// 🟡 PATCH /api/enrollments/:id
func (ctrl *EnrollmentController) UpdateStatus(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStatusRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	e, err := ctrl.repo.SetStatus(c.UserContext(), caller.StudioID, id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonUpdated(c, "Enrollment updated", e)
}

// 🟢 GET /api/enrollments?class_id=&client_id=
func (ctrl *EnrollmentController) List(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var q dto.ListQuery
	if q.ClassID, err = helper.ParseUUIDQuery(c, "class_id"); err != nil {
		return helper.FromError(c, err)
	}
	if q.ClientID, err = helper.ParseUUIDQuery(c, "client_id"); err != nil {
		return helper.FromError(c, err)
	}
	return ctrl.list(c, caller, q)
}

// 🟢 GET /api/client/enrollments
func (ctrl *EnrollmentController) Mine(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return ctrl.list(c, caller, dto.ListQuery{ClientID: &clientID, Upcoming: c.QueryBool("upcoming")})
}

func (ctrl *EnrollmentController) list(c *fiber.Ctx, caller helper.Caller, q dto.ListQuery) error {
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}
