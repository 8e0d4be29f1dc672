package details

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authController "studiofit_backend/internals/features/users/auth/controller"
	authRoute "studiofit_backend/internals/features/users/auth/route"
	authService "studiofit_backend/internals/features/users/auth/service"
	"studiofit_backend/internals/middlewares"
)

func AuthRoutes(api fiber.Router, svc *authService.Service, cookieSecure bool, limiter fiber.Storage, log *zap.Logger) {
	ctrl := authController.NewAuthController(svc, cookieSecure, log.Named("auth"))
	authRoute.AuthRoutes(api, ctrl,
		middlewares.LoginRateLimiter(limiter),
		middlewares.RegisterRateLimiter(limiter),
	)
}
