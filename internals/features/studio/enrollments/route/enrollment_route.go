package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/enrollments/controller"
)

func EnrollmentRoutes(api fiber.Router, ctrl *controller.EnrollmentController) {
	r := api.Group("/enrollments")
	r.Get("/", ctrl.List)
	r.Post("/", ctrl.Create)
	r.Patch("/:id", ctrl.UpdateStatus)

	api.Get("/client/enrollments", ctrl.Mine)
	api.Post("/client/enrollments", ctrl.SelfEnroll)
}
