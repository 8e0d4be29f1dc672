package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/notifications/reminders/controller"
)

func ReminderRoutes(api fiber.Router, ctrl *controller.ReminderController) {
	api.Post("/notifications/class-reminders", ctrl.ClassReminders)
}
