package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiofit_backend/internals/features/studio/studios/model"
)

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.StudioModel, error)
	FindBySlug(ctx context.Context, slug string) (*model.StudioModel, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListActive(ctx context.Context) ([]model.StudioModel, error)
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	GrantRole(ctx context.Context, studioID, userID uuid.UUID, role string) (bool, error)
	RevokeRole(ctx context.Context, studioID, userID uuid.UUID, role string) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StudioModel, error) {
	var s model.StudioModel
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*model.StudioModel, error) {
	var s model.StudioModel
	if err := r.db.WithContext(ctx).Where("slug = ? AND is_active", slug).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.StudioModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) ListActive(ctx context.Context) ([]model.StudioModel, error) {
	var out []model.StudioModel
	err := r.db.WithContext(ctx).Where("is_active").Order("created_at").Find(&out).Error
	return out, err
}

func (r *gormRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.WithContext(ctx).Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&ok).Error
	return ok, err
}

// GrantRole inserts the role row unless the same role already exists; reports whether a row was added.
func (r *gormRepository) GrantRole(ctx context.Context, studioID, userID uuid.UUID, role string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO user_roles (user_id, studio_id, role)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM user_roles WHERE user_id = ? AND studio_id = ? AND role = ?
		)`, userID, studioID, role, userID, studioID, role)
	return res.RowsAffected > 0, res.Error
}

func (r *gormRepository) RevokeRole(ctx context.Context, studioID, userID uuid.UUID, role string) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM user_roles WHERE user_id = ? AND studio_id = ? AND role = ?`,
		userID, studioID, role)
	return res.RowsAffected, res.Error
}
