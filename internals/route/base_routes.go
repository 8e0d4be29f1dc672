package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "studiofit_backend/internals/databases"
)

var startTime = time.Now()

func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 🟢 GET /health/db: readiness with a db round trip
	app.Get("/health/db", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		status, httpStatus := "ok", fiber.StatusOK
		if err := database.Ping(ctx, db); err != nil {
			status, httpStatus = "database unreachable", fiber.StatusServiceUnavailable
		}
		return c.Status(httpStatus).JSON(fiber.Map{
			"status": status,
			"uptime": time.Since(startTime).Round(time.Second).String(),
		})
	})
}
