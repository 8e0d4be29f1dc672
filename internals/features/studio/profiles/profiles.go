// Package profiles maps a signed-in user to their trainer or client row in a studio.
package profiles

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "studiofit_backend/internals/helpers"
)

// Both render as 403 through helper.FromError.
var (
	ErrNoTrainerProfile = fiber.NewError(fiber.StatusForbidden, "No trainer profile for this user")
	ErrNoClientProfile  = fiber.NewError(fiber.StatusForbidden, "No client profile for this user")
)

type Resolver interface {
	TrainerID(ctx context.Context, studioID, userID uuid.UUID) (uuid.UUID, error)
	ClientID(ctx context.Context, studioID, userID uuid.UUID) (uuid.UUID, error)
}

type gormResolver struct {
	db *gorm.DB
}

func New(db *gorm.DB) Resolver {
	return &gormResolver{db: db}
}

func (r *gormResolver) TrainerID(ctx context.Context, studioID, userID uuid.UUID) (uuid.UUID, error) {
	return r.lookup(ctx, "trainers", studioID, userID, ErrNoTrainerProfile)
}

func (r *gormResolver) ClientID(ctx context.Context, studioID, userID uuid.UUID) (uuid.UUID, error) {
	return r.lookup(ctx, "clients", studioID, userID, ErrNoClientProfile)
}

func (r *gormResolver) lookup(ctx context.Context, table string, studioID, userID uuid.UUID, notFound error) (uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table(table).
		Where("studio_id = ? AND user_id = ?", studioID, userID).
		Order("created_at ASC").
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, notFound
	}
	return ids[0], nil
}

// Static is a fixed Resolver for tests and jobs.
type Static struct {
	Trainers map[uuid.UUID]uuid.UUID
	Clients  map[uuid.UUID]uuid.UUID
}

func (s Static) TrainerID(_ context.Context, _, userID uuid.UUID) (uuid.UUID, error) {
	if id, ok := s.Trainers[userID]; ok {
		return id, nil
	}
	return uuid.Nil, ErrNoTrainerProfile
}

func (s Static) ClientID(_ context.Context, _, userID uuid.UUID) (uuid.UUID, error) {
	if id, ok := s.Clients[userID]; ok {
		return id, nil
	}
	return uuid.Nil, ErrNoClientProfile
}

// TrainerScope returns nil for admins and the caller's trainer id for trainers,
// so list and edit queries can be narrowed to the trainer's own rows.
func TrainerScope(ctx context.Context, r Resolver, caller helper.Caller) (*uuid.UUID, error) {
	if caller.IsAdmin() {
		return nil, nil
	}
	if !caller.IsTrainer() {
		return nil, fiber.NewError(fiber.StatusForbidden, helper.MsgAccessDenied)
	}
	id, err := r.TrainerID(ctx, caller.StudioID, caller.UserID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
