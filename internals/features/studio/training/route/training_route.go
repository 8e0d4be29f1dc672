package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/training/controller"
)

func TrainingRoutes(api fiber.Router, ctrl *controller.TrainingController) {
	ti := api.Group("/training-instructions")
	ti.Get("/", ctrl.ListInstructions)
	ti.Post("/", ctrl.CreateInstruction)
	ti.Get("/:id", ctrl.GetInstruction)
	ti.Patch("/:id", ctrl.UpdateInstruction)
	ti.Delete("/:id", ctrl.DeleteInstruction)

	api.Get("/set-progress", ctrl.ListProgress)

	client := api.Group("/client")
	client.Get("/training-instructions", ctrl.MyInstructions)
	client.Get("/set-progress", ctrl.MyProgress)
	client.Post("/set-progress", ctrl.RecordSet)
}
