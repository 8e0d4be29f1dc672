package details

import (
	"github.com/gofiber/fiber/v2"

	pointsController "studiofit_backend/internals/features/rewards/points/controller"
	pointsRepo "studiofit_backend/internals/features/rewards/points/repository"
	pointsRoute "studiofit_backend/internals/features/rewards/points/route"
	pointsService "studiofit_backend/internals/features/rewards/points/service"
	referralController "studiofit_backend/internals/features/rewards/referrals/controller"
	referralRepo "studiofit_backend/internals/features/rewards/referrals/repository"
	referralRoute "studiofit_backend/internals/features/rewards/referrals/route"
	referralService "studiofit_backend/internals/features/rewards/referrals/service"
	"studiofit_backend/internals/features/studio/profiles"
)

func RewardRoutes(
	api fiber.Router,
	points *pointsService.Service,
	pRepo pointsRepo.Repository,
	referrals *referralService.Service,
	rRepo referralRepo.Repository,
	resolver profiles.Resolver,
) {
	pointsRoute.PointsRoutes(api, pointsController.NewPointsController(points, pRepo, resolver))
	referralRoute.ReferralRoutes(api, referralController.NewReferralController(referrals, rRepo))
}
