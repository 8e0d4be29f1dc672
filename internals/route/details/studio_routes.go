package details

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/media"
	"studiofit_backend/internals/features/studio/dashboard"
	"studiofit_backend/internals/features/studio/exercises"
	"studiofit_backend/internals/features/studio/profiles"

	attendanceController "studiofit_backend/internals/features/studio/attendance/controller"
	attendanceRepo "studiofit_backend/internals/features/studio/attendance/repository"
	attendanceRoute "studiofit_backend/internals/features/studio/attendance/route"
	availabilityController "studiofit_backend/internals/features/studio/availability/controller"
	availabilityRepo "studiofit_backend/internals/features/studio/availability/repository"
	availabilityRoute "studiofit_backend/internals/features/studio/availability/route"
	classController "studiofit_backend/internals/features/studio/classes/controller"
	classRepo "studiofit_backend/internals/features/studio/classes/repository"
	classRoute "studiofit_backend/internals/features/studio/classes/route"
	clientController "studiofit_backend/internals/features/studio/clients/controller"
	clientRepo "studiofit_backend/internals/features/studio/clients/repository"
	clientRoute "studiofit_backend/internals/features/studio/clients/route"
	enrollmentController "studiofit_backend/internals/features/studio/enrollments/controller"
	enrollmentRepo "studiofit_backend/internals/features/studio/enrollments/repository"
	enrollmentRoute "studiofit_backend/internals/features/studio/enrollments/route"
	studioController "studiofit_backend/internals/features/studio/studios/controller"
	studioRepo "studiofit_backend/internals/features/studio/studios/repository"
	studioRoute "studiofit_backend/internals/features/studio/studios/route"
	trainerController "studiofit_backend/internals/features/studio/trainers/controller"
	trainerRepo "studiofit_backend/internals/features/studio/trainers/repository"
	trainerRoute "studiofit_backend/internals/features/studio/trainers/route"
	trainingController "studiofit_backend/internals/features/studio/training/controller"
	trainingRepo "studiofit_backend/internals/features/studio/training/repository"
	trainingRoute "studiofit_backend/internals/features/studio/training/route"
)

func StudioRoutes(api fiber.Router, db *gorm.DB, resolver profiles.Resolver, store media.Store, log *zap.Logger) {
	studioRoute.StudioRoutes(api, studioController.NewStudioController(studioRepo.New(db)))
	classRoute.ClassRoutes(api, classController.NewClassController(classRepo.New(db)))
	clientRoute.ClientRoutes(api, clientController.NewClientController(clientRepo.New(db), resolver))
	trainerRoute.TrainerRoutes(api, trainerController.NewTrainerController(trainerRepo.New(db), store, log.Named("trainers")))
	availabilityRoute.AvailabilityRoutes(api, availabilityController.NewAvailabilityController(availabilityRepo.New(db), resolver))
	trainingRoute.TrainingRoutes(api, trainingController.NewTrainingController(trainingRepo.New(db), resolver))
	enrollmentRoute.EnrollmentRoutes(api, enrollmentController.NewEnrollmentController(enrollmentRepo.New(db), resolver))
	attendanceRoute.AttendanceRoutes(api, attendanceController.NewAttendanceController(attendanceRepo.New(db), resolver))

	exercises.Routes(api, exercises.NewController(exercises.NewRepository(db), log.Named("exercises")))
	dashboard.Routes(api, dashboard.NewController(dashboard.NewService(dashboard.NewQueries(db)), resolver))
}
