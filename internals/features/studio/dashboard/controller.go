package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type Controller struct {
	svc      *Service
	profiles profiles.Resolver
}

func NewController(svc *Service, resolver profiles.Resolver) *Controller {
	return &Controller{svc: svc, profiles: resolver}
}

// 🟢 GET /api/dashboard/admin
func (ctrl *Controller) Admin(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	d, err := ctrl.svc.Admin(c.UserContext(), caller.StudioID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}

// 🟢 GET /api/dashboard/trainer
func (ctrl *Controller) Trainer(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	trainerID, err := ctrl.profiles.TrainerID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	d, err := ctrl.svc.Trainer(c.UserContext(), caller.StudioID, trainerID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}

// 🟢 GET /api/client/dashboard
func (ctrl *Controller) Client(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	d, err := ctrl.svc.Client(c.UserContext(), caller.StudioID, clientID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}

func Routes(api fiber.Router, ctrl *Controller) {
	api.Get("/dashboard/admin", ctrl.Admin)
	api.Get("/dashboard/trainer", ctrl.Trainer)
	api.Get("/client/dashboard", ctrl.Client)
}
