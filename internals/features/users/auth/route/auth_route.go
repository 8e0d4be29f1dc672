package route

import (
	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/users/auth/controller"
)

// AuthRoutes mounts /api/auth. login and register carry their own stricter limiters.
func AuthRoutes(api fiber.Router, ctrl *controller.AuthController, loginLimiter, registerLimiter fiber.Handler) {
	auth := api.Group("/auth")

	auth.Post("/register", registerLimiter, ctrl.Register)
	auth.Post("/login", loginLimiter, ctrl.Login)
	auth.Post("/google", loginLimiter, ctrl.LoginGoogle)
	auth.Post("/refresh", ctrl.Refresh)

	auth.Post("/logout", ctrl.Logout)
	auth.Get("/me", ctrl.Me)
	auth.Post("/switch-studio", ctrl.SwitchStudio)
}
