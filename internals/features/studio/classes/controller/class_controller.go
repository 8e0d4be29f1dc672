package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studiofit_backend/internals/features/studio/classes/dto"
	"studiofit_backend/internals/features/studio/classes/repository"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

type ClassController struct {
	repo repository.Repository
}

func NewClassController(repo repository.Repository) *ClassController {
	return &ClassController{repo: repo}
}

// 🟢 GET /api/classes
func (ctrl *ClassController) List(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := dto.ListClassQuery{Status: strings.TrimSpace(c.Query("status"))}
	if q.TrainerID, err = helper.ParseUUIDQuery(c, "trainer_id"); err != nil {
		return helper.FromError(c, err)
	}
	if q.Date, err = dbtime.ParseDatePtr(c.Query("date")); err != nil {
		return helper.FromError(c, helper.NewFieldError("date", "must be YYYY-MM-DD"))
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/classes/:id
func (ctrl *ClassController) Get(c *fiber.Ctx) error {
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
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// 🟢 POST /api/classes (responds 200 with the stored row)
func (ctrl *ClassController) Create(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateClassRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if err := req.Check(); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(caller.StudioID)
	if m.TrainerID != nil {
		if err := ctrl.checkTrainer(c, caller.StudioID, *m.TrainerID); err != nil {
			return helper.FromError(c, err)
		}
	}
	if err := ctrl.repo.Create(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Class created", m)
}

// 🟡 PATCH /api/classes/:id
func (ctrl *ClassController) Update(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateClassRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	cur, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	updates, err := req.Apply(cur)
	if err != nil {
		return helper.FromError(c, err)
	}
	if tid, ok := updates["trainer_id"].(uuid.UUID); ok {
		if err := ctrl.checkTrainer(c, caller.StudioID, tid); err != nil {
			return helper.FromError(c, err)
		}
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	if err := ctrl.repo.Update(c.UserContext(), caller.StudioID, id, updates); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Class updated", m)
}

// 🔴 DELETE /api/classes/:id
func (ctrl *ClassController) Delete(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctrl.repo.Delete(c.UserContext(), caller.StudioID, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Class deleted", fiber.Map{"id": id})
}

// 🟢 GET /api/classes/:id/roster?date=YYYY-MM-DD (defaults to today in the studio's zone)
func (ctrl *ClassController) Roster(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	class, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	var date time.Time
	if s := c.Query("date"); s != "" {
		if date, err = dbtime.ParseDate(s); err != nil {
			return helper.FromError(c, helper.NewFieldError("date", "must be YYYY-MM-DD"))
		}
	} else if class.ClassDate != nil {
		date = *class.ClassDate
	} else {
		tz, err := ctrl.repo.StudioTimezone(c.UserContext(), caller.StudioID)
		if err != nil {
			return helper.FromError(c, err)
		}
		date = dbtime.Today(dbtime.LoadLocation(tz))
	}

	rows, err := ctrl.repo.Roster(c.UserContext(), caller.StudioID, id, date)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"class":   class,
		"date":    date.Format(dbtime.DateLayout),
		"clients": rows,
	})
}

func (ctrl *ClassController) checkTrainer(c *fiber.Ctx, studioID, trainerID uuid.UUID) error {
	ok, err := ctrl.repo.TrainerExists(c.UserContext(), studioID, trainerID)
	if err != nil {
		return err
	}
	if !ok {
		return helper.NewFieldError("trainer_id", "trainer not found in this studio")
	}
	return nil
}
