package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/attendance/dto"
	"studiofit_backend/internals/features/studio/attendance/model"
	"studiofit_backend/internals/features/studio/attendance/repository"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	repo     repository.Repository
	profiles profiles.Resolver
}

func NewAttendanceController(repo repository.Repository, resolver profiles.Resolver) *AttendanceController {
	return &AttendanceController{repo: repo, profiles: resolver}
}

func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrUnknownRefs) {
		return helper.JsonError(c, fiber.StatusNotFound, "Class or client not found")
	}
	return helper.FromError(c, err)
}

// 🟢 POST /api/attendance (marking twice updates the same row)
func (ctrl *AttendanceController) Mark(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.MarkRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	rows := []model.AttendanceModel{req.ToModel(caller.StudioID, caller.UserID)}
	if err := ctrl.repo.Upsert(c.UserContext(), caller.StudioID, rows); err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Attendance recorded", rows[0])
}

// 🟢 POST /api/attendance/bulk
func (ctrl *AttendanceController) Bulk(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.BulkRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	rows := req.ToModels(caller.StudioID, caller.UserID)
	if err := ctrl.repo.Upsert(c.UserContext(), caller.StudioID, rows); err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Attendance recorded", fiber.Map{"count": len(rows), "records": rows})
}

// 🟢 GET /api/attendance?class_id=&date=&client_id=
func (ctrl *AttendanceController) List(c *fiber.Ctx) error {
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
	if s := c.Query("date"); s != "" {
		if _, err := dbtime.ParseDate(s); err != nil {
			return helper.FromError(c, helper.NewFieldError("date", "must be YYYY-MM-DD"))
		}
		q.Date = &s
	}
	return ctrl.list(c, caller, q)
}

// 🟢 GET /api/client/attendance
func (ctrl *AttendanceController) Mine(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return ctrl.list(c, caller, dto.ListQuery{ClientID: &clientID})
}

func (ctrl *AttendanceController) list(c *fiber.Ctx, caller helper.Caller, q dto.ListQuery) error {
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}
