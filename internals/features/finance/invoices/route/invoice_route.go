package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/finance/invoices/controller"
)

func InvoiceRoutes(api fiber.Router, ctrl *controller.InvoiceController) {
	inv := api.Group("/invoices")
	inv.Get("/", ctrl.List)
	inv.Post("/", ctrl.Create)
	inv.Get("/:id", ctrl.Get)
	inv.Post("/:id/checkout", ctrl.Checkout)

	api.Get("/client/invoices", ctrl.Mine)
}
