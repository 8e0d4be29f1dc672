package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/availability/controller"
)

func AvailabilityRoutes(api fiber.Router, ctrl *controller.AvailabilityController) {
	r := api.Group("/trainer-availability")
	r.Get("/", ctrl.List)
	r.Post("/", ctrl.Create)
	r.Patch("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)
}
