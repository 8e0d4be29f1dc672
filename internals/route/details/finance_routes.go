package details

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/configs"
	invoiceController "studiofit_backend/internals/features/finance/invoices/controller"
	invoiceRepo "studiofit_backend/internals/features/finance/invoices/repository"
	invoiceRoute "studiofit_backend/internals/features/finance/invoices/route"
	paymentController "studiofit_backend/internals/features/finance/payments/controller"
	"studiofit_backend/internals/features/finance/payments/provider"
	paymentRepo "studiofit_backend/internals/features/finance/payments/repository"
	paymentRoute "studiofit_backend/internals/features/finance/payments/route"
	paymentService "studiofit_backend/internals/features/finance/payments/service"
	"studiofit_backend/internals/features/studio/profiles"
)

func FinanceRoutes(
	api fiber.Router,
	db *gorm.DB,
	checkout provider.Checkout,
	resolver profiles.Resolver,
	reconcile *paymentService.Service,
	cfg *configs.Config,
	log *zap.Logger,
) {
	invoiceRoute.InvoiceRoutes(api,
		invoiceController.NewInvoiceController(invoiceRepo.New(db), checkout, resolver, cfg.SiteURL, log.Named("invoices")))
	paymentRoute.WebhookRoutes(api,
		paymentController.NewWebhookController(reconcile, cfg.Stripe, cfg.Midtrans, log.Named("webhooks")))
	paymentRoute.GatewayEventRoutes(api,
		paymentController.NewPaymentGatewayEventController(paymentRepo.NewEventLog(db)))
}
