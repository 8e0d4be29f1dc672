package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/clients/controller"
)

func ClientRoutes(api fiber.Router, ctrl *controller.ClientController) {
	r := api.Group("/clients")
	r.Get("/", ctrl.List)
	r.Post("/", ctrl.Create)
	r.Get("/:id", ctrl.Get)
	r.Patch("/:id", ctrl.Update)
	r.Patch("/:id/status", ctrl.UpdateStatus)
	r.Patch("/:id/trainer", ctrl.AssignTrainer)
	r.Delete("/:id", ctrl.Delete)
}
