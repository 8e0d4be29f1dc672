package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/studio/attendance/controller"
)

func AttendanceRoutes(api fiber.Router, ctrl *controller.AttendanceController) {
	r := api.Group("/attendance")
	r.Get("/", ctrl.List)
	r.Post("/", ctrl.Mark)
	r.Post("/bulk", ctrl.Bulk)

	api.Get("/client/attendance", ctrl.Mine)
}
