package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/trainers/controller"
)

// TrainerRoutes: reads are staff, writes live under /admin (role enforced by the access table).
func TrainerRoutes(api fiber.Router, ctrl *controller.TrainerController) {
	r := api.Group("/trainers")
	r.Get("/", ctrl.List)
	r.Get("/:id", ctrl.Get)

	admin := api.Group("/admin/trainers")
	admin.Post("/", ctrl.Create)
	admin.Patch("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)
	admin.Post("/:id/avatar", ctrl.UploadAvatar)
}
