package controller

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"studiofit_backend/internals/features/media"
	"studiofit_backend/internals/features/studio/trainers/dto"
	"studiofit_backend/internals/features/studio/trainers/repository"
	helper "studiofit_backend/internals/helpers"
)

type TrainerController struct {
	repo  repository.Repository
	store media.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewTrainerController(repo repository.Repository, store media.Store, log *zap.Logger) *TrainerController {
	return &TrainerController{repo: repo, store: store, log: log, now: time.Now}
}

// 🟢 GET /api/trainers
func (ctrl *TrainerController) List(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := dto.ListTrainerQuery{
		Specialty: strings.TrimSpace(c.Query("specialty")),
		Search:    strings.TrimSpace(c.Query("q")),
	}
	if s := c.Query("active"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return helper.FromError(c, helper.NewFieldError("active", "must be true or false"))
		}
		q.Active = &b
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/trainers/:id
func (ctrl *TrainerController) Get(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	t, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", t)
}

// 🟢 POST /api/admin/trainers
func (ctrl *TrainerController) Create(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateTrainerRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(caller.StudioID)
	if err := ctrl.repo.Create(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Trainer created", m)
}

// 🟡 PATCH /api/admin/trainers/:id
func (ctrl *TrainerController) Update(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateTrainerRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}
	if err := ctrl.repo.Update(c.UserContext(), caller.StudioID, id, updates); err != nil {
		return helper.FromError(c, err)
	}
	t, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Trainer updated", t)
}

// 🔴 DELETE /api/admin/trainers/:id
func (ctrl *TrainerController) Delete(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "Trainer deleted", fiber.Map{"id": id})
}

// 🟢 POST /api/admin/trainers/:id/avatar (multipart "file")
func (ctrl *TrainerController) UploadAvatar(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if _, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id); err != nil {
		return helper.FromError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.FromError(c, helper.NewFieldError("file", "is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return helper.FromError(c, err)
	}
	defer f.Close()

	out, err := media.ProcessAvatar(f)
	switch {
	case errors.Is(err, media.ErrImageTooLarge):
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "Image must be at most 5MB")
	case errors.Is(err, media.ErrUnsupportedImage):
		return helper.FromError(c, helper.NewFieldError("file", err.Error()))
	case err != nil:
		return helper.FromError(c, err)
	}

	url, err := ctrl.store.Put(c.UserContext(), media.AvatarKey(caller.StudioID, id, ctrl.now()), "image/webp", bytes.NewReader(out), int64(len(out)))
	if errors.Is(err, media.ErrStorageDisabled) {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Avatar storage is not configured")
	}
	if err != nil {
		ctrl.log.Error("avatar upload failed", zap.String("trainer_id", id.String()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadGateway, "Avatar upload failed")
	}
	if err := ctrl.repo.Update(c.UserContext(), caller.StudioID, id, map[string]any{"avatar_url": url}); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Avatar updated", fiber.Map{"id": id, "avatar_url": url})
}
