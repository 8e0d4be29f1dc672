package details

import (
	"github.com/gofiber/fiber/v2"

	communityController "studiofit_backend/internals/features/events/community/controller"
	communityRepo "studiofit_backend/internals/features/events/community/repository"
	communityRoute "studiofit_backend/internals/features/events/community/route"
	communityService "studiofit_backend/internals/features/events/community/service"
)

func EventRoutes(api fiber.Router, repo communityRepo.Repository, svc *communityService.Service) {
	communityRoute.CommunityRoutes(api, communityController.NewCommunityController(repo, svc))
}
