package details

import (
	"github.com/gofiber/fiber/v2"

	reminderController "studiofit_backend/internals/features/notifications/reminders/controller"
	reminderRoute "studiofit_backend/internals/features/notifications/reminders/route"
	reminderService "studiofit_backend/internals/features/notifications/reminders/service"
)

func NotificationRoutes(api fiber.Router, svc *reminderService.Service) {
	reminderRoute.ReminderRoutes(api, reminderController.NewReminderController(svc))
}
