package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/rewards/points/controller"
)

func PointsRoutes(api fiber.Router, ctrl *controller.PointsController) {
	client := api.Group("/client")
	client.Get("/points", ctrl.MyPoints)
	client.Get("/rewards", ctrl.MyRewards)
	client.Post("/rewards/:id/redeem", ctrl.Redeem)

	// /adjust first so it isn't captured by :client_id
	api.Post("/points/adjust", ctrl.Adjust)
	api.Get("/points/:client_id", ctrl.ClientPoints)

	th := api.Group("/admin/reward-thresholds")
	th.Get("/", ctrl.ListThresholds)
	th.Post("/", ctrl.CreateThreshold)
	th.Patch("/:id", ctrl.UpdateThreshold)
	th.Delete("/:id", ctrl.DeleteThreshold)
}
