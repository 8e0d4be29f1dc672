package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/classes/controller"
)

func ClassRoutes(api fiber.Router, ctrl *controller.ClassController) {
	r := api.Group("/classes")
	r.Get("/", ctrl.List)
	r.Post("/", ctrl.Create)
	r.Get("/:id", ctrl.Get)
	r.Get("/:id/roster", ctrl.Roster)
	r.Patch("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)
}
