package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/rewards/referrals/controller"
)

func ReferralRoutes(api fiber.Router, ctrl *controller.ReferralController) {
	r := api.Group("/referrals")
	r.Get("/validate/:code", ctrl.Validate)

	r.Get("/codes", ctrl.ListCodes)
	r.Post("/codes", ctrl.CreateCode)
	r.Patch("/codes/:id", ctrl.UpdateCode)
	r.Delete("/codes/:id", ctrl.DeleteCode)

	r.Post("/track", ctrl.Track)
	r.Get("/tracking", ctrl.MyTracking)
	r.Post("/tracking/:id/complete", ctrl.Complete)
	r.Post("/tracking/:id/cancel", ctrl.Cancel)

	api.Get("/admin/referrals", ctrl.AdminList)
}
