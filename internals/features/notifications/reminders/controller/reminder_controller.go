package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studiofit_backend/internals/features/notifications/reminders/dto"
	"studiofit_backend/internals/features/notifications/reminders/service"
	helper "studiofit_backend/internals/helpers"
	"studiofit_backend/internals/helpers/dbtime"
)

type ReminderController struct {
	svc *service.Service
}

func NewReminderController(svc *service.Service) *ReminderController {
	return &ReminderController{svc: svc}
}

// 🟢 POST /api/notifications/class-reminders
func (ctrl *ReminderController) ClassReminders(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ClassReminderRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	date, err := dbtime.ParseDatePtr(req.Date)
	if err != nil {
		return helper.FromError(c, helper.NewFieldError("date", "must be YYYY-MM-DD"))
	}
	rep, err := ctrl.svc.SendForClass(c.UserContext(), caller.StudioID, uuid.MustParse(req.ClassID), date)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Reminders processed", rep)
}
