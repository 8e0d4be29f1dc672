package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/configs"
	communityRepo "studiofit_backend/internals/features/events/community/repository"
	communityService "studiofit_backend/internals/features/events/community/service"
	"studiofit_backend/internals/features/finance/payments/provider"
	paymentRepo "studiofit_backend/internals/features/finance/payments/repository"
	paymentService "studiofit_backend/internals/features/finance/payments/service"
	"studiofit_backend/internals/features/media"
	"studiofit_backend/internals/features/notifications/mailer"
	reminderRepo "studiofit_backend/internals/features/notifications/reminders/repository"
	reminderService "studiofit_backend/internals/features/notifications/reminders/service"
	pointsRepo "studiofit_backend/internals/features/rewards/points/repository"
	pointsService "studiofit_backend/internals/features/rewards/points/service"
	referralRepo "studiofit_backend/internals/features/rewards/referrals/repository"
	referralService "studiofit_backend/internals/features/rewards/referrals/service"
	"studiofit_backend/internals/features/studio/profiles"
	authRepo "studiofit_backend/internals/features/users/auth/repository"
	authService "studiofit_backend/internals/features/users/auth/service"
	"studiofit_backend/internals/middlewares/access"
)

// Deps is the infrastructure every area builds on.
type Deps struct {
	DB       *gorm.DB
	Config   *configs.Config
	Log      *zap.Logger
	Access   *access.Table
	Limiter  fiber.Storage // nil means in-memory
	Mailer   mailer.Mailer
	Store    media.Store
	Checkout provider.Checkout
}

// Services are built once and shared between routes, cron and jobs.
type Services struct {
	Profiles profiles.Resolver

	AuthRepo authRepo.Repository
	Auth     *authService.Service

	PointsRepo   pointsRepo.Repository
	Points       *pointsService.Service
	ReferralRepo referralRepo.Repository
	Referrals    *referralService.Service

	Reconcile *paymentService.Service

	CommunityRepo communityRepo.Repository
	Community     *communityService.Service

	Reminders *reminderService.Service
}

func NewServices(d Deps) *Services {
	s := &Services{
		Profiles:      profiles.New(d.DB),
		AuthRepo:      authRepo.New(d.DB),
		PointsRepo:    pointsRepo.New(d.DB),
		ReferralRepo:  referralRepo.New(d.DB),
		CommunityRepo: communityRepo.New(d.DB),
	}
	s.Points = pointsService.New(s.PointsRepo, d.Log.Named("points"))
	s.Referrals = referralService.New(s.ReferralRepo, s.Points, d.Config.Points.Referral, d.Log.Named("referrals"))
	s.Auth = authService.New(authService.Deps{
		Repo:      s.AuthRepo,
		JWT:       d.Config.JWT,
		Google:    authService.NewGoogleVerifier(d.Config.GoogleClientID),
		Mailer:    d.Mailer,
		Referrals: s.Referrals,
		SiteURL:   d.Config.SiteURL,
		Log:       d.Log,
	})
	s.Reconcile = paymentService.New(paymentRepo.New(d.DB), s.Points, d.Config.Points.PerCurrencyUnit, d.Log.Named("payments"))
	s.Community = communityService.New(s.CommunityRepo, d.Checkout, d.Config.SiteURL, d.Log.Named("community"))
	s.Reminders = reminderService.New(reminderRepo.New(d.DB), d.Mailer, d.Log.Named("reminders"))
	return s
}
