package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"studiofit_backend/internals/configs"
	"studiofit_backend/internals/features/finance/payments/provider"
	"studiofit_backend/internals/features/finance/payments/service"
	helper "studiofit_backend/internals/helpers"
)

type WebhookController struct {
	svc      *service.Service
	stripe   configs.StripeConfig
	midtrans configs.MidtransConfig
	log      *zap.Logger
}

func NewWebhookController(svc *service.Service, stripe configs.StripeConfig, midtrans configs.MidtransConfig, log *zap.Logger) *WebhookController {
	return &WebhookController{svc: svc, stripe: stripe, midtrans: midtrans, log: log}
}

// 🟢 POST /api/webhooks/stripe
func (ctrl *WebhookController) Stripe(c *fiber.Ctx) error {
	if ctrl.stripe.WebhookSecret == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Stripe not configured")
	}
	body := append([]byte(nil), c.Body()...)
	ev, err := provider.ParseStripe(body, c.Get("Stripe-Signature"), ctrl.stripe.WebhookSecret)
	if err != nil {
		ctrl.log.Warn("stripe webhook rejected", zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid signature")
	}
	return ctrl.handle(c, ev)
}

// 🟢 POST /api/webhooks/midtrans
func (ctrl *WebhookController) Midtrans(c *fiber.Ctx) error {
	if !ctrl.midtrans.Enabled() {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Midtrans not configured")
	}
	body := append([]byte(nil), c.Body()...)
	ev, err := provider.ParseMidtrans(body, ctrl.midtrans.ServerKey)
	if errors.Is(err, provider.ErrInvalidSignature) {
		ctrl.log.Warn("midtrans webhook rejected", zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid signature")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	return ctrl.handle(c, ev)
}

// handle answers non-2xx on failure or overlap so the gateway retries.
func (ctrl *WebhookController) handle(c *fiber.Ctx, ev *provider.Event) error {
	res, err := ctrl.svc.Handle(c.UserContext(), *ev)
	if errors.Is(err, service.ErrInFlight) {
		return helper.JsonError(c, fiber.StatusConflict, "Webhook event is already being processed")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Webhook processing failed")
	}
	return helper.JsonOK(c, res.Status, res)
}
