package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/constants"
	"studiofit_backend/internals/features/studio/studios/controller"
	authMiddleware "studiofit_backend/internals/middlewares/auth"
)

func StudioRoutes(api fiber.Router, ctrl *controller.StudioController) {
	api.Get("/public/studios/:slug", ctrl.GetPublic)

	studio := api.Group("/studio")
	studio.Get("/", ctrl.GetCurrent)
	studio.Patch("/", authMiddleware.OnlyRoles(constants.RoleErrorAdmin("studio settings"), constants.AdminOnly...), ctrl.UpdateCurrent)

	roles := api.Group("/admin/roles")
	roles.Post("/", ctrl.GrantRole)
	roles.Delete("/", ctrl.RevokeRole)
}
