package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/events/community/controller"
)

func CommunityRoutes(api fiber.Router, ctrl *controller.CommunityController) {
	api.Get("/public/community-events", ctrl.PublicList)

	ev := api.Group("/community-events")
	ev.Get("/", ctrl.List)
	ev.Post("/", ctrl.Create)
	ev.Get("/:id", ctrl.Get)
	ev.Patch("/:id", ctrl.Update)
	ev.Delete("/:id", ctrl.Delete)
	ev.Get("/:id/participants", ctrl.Participants)
	ev.Post("/:id/register", ctrl.Register)
	ev.Delete("/:id/register", ctrl.CancelRegistration)
}
