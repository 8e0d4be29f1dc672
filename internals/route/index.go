package routes

import (
	"github.com/gofiber/fiber/v2"

	routeDetails "studiofit_backend/internals/route/details"

	"studiofit_backend/internals/middlewares/access"
	authMiddleware "studiofit_backend/internals/middlewares/auth"
)

// SetupRoutes mounts /health and the /api tree. Everything under /api runs optional
// authentication first and then the access table.
func SetupRoutes(app *fiber.App, d Deps, s *Services) {
	BaseRoutes(app, d.DB)

	d.Log.Info("setting up /api group")
	api := app.Group("/api",
		authMiddleware.Authenticate(authMiddleware.Options{
			Secret: d.Config.JWT.Secret,
			Store:  s.AuthRepo,
			Log:    d.Log.Named("auth"),
		}),
		access.Enforce(d.Access),
	)
	api.Get("/access/check", access.CheckHandler(d.Access))

	d.Log.Info("mounting auth routes")
	routeDetails.AuthRoutes(api, s.Auth, d.Config.JWT.CookieSecure, d.Limiter, d.Log)

	d.Log.Info("mounting studio routes")
	routeDetails.StudioRoutes(api, d.DB, s.Profiles, d.Store, d.Log)

	d.Log.Info("mounting events routes")
	routeDetails.EventRoutes(api, s.CommunityRepo, s.Community)

	d.Log.Info("mounting finance routes")
	routeDetails.FinanceRoutes(api, d.DB, d.Checkout, s.Profiles, s.Reconcile, d.Config, d.Log)

	d.Log.Info("mounting rewards routes")
	routeDetails.RewardRoutes(api, s.Points, s.PointsRepo, s.Referrals, s.ReferralRepo, s.Profiles)

	d.Log.Info("mounting notification routes")
	routeDetails.NotificationRoutes(api, s.Reminders)
}
