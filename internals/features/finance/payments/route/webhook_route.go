package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/finance/payments/controller"
)

func WebhookRoutes(api fiber.Router, ctrl *controller.WebhookController) {
	wh := api.Group("/webhooks")
	wh.Post("/stripe", ctrl.Stripe)
	wh.Post("/midtrans", ctrl.Midtrans)
}

func GatewayEventRoutes(api fiber.Router, ctrl *controller.PaymentGatewayEventController) {
	ev := api.Group("/admin/payment-events")
	ev.Get("/", ctrl.ListEvents)
	ev.Get("/:id", ctrl.GetByID)
}
