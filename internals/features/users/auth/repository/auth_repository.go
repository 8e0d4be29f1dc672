package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	clientModel "studiofit_backend/internals/features/studio/clients/model"
	studioModel "studiofit_backend/internals/features/studio/studios/model"
	authModel "studiofit_backend/internals/features/users/auth/model"
	"studiofit_backend/internals/constants"
	helper "studiofit_backend/internals/helpers"
)

// Membership is a user's collapsed role inside one studio.
type Membership struct {
	StudioID   uuid.UUID
	StudioSlug string
	StudioName string
	Role       string
}

// Repository is everything the auth service and the session middleware read or write.
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*authModel.UserModel, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*authModel.UserModel, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*authModel.UserModel, error)
	CreateUser(ctx context.Context, user *authModel.UserModel, clientStudioID *uuid.UUID) error
	LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error
	EnsureClientMembership(ctx context.Context, user *authModel.UserModel, studioID uuid.UUID) error

	FindStudioBySlug(ctx context.Context, slug string) (*studioModel.StudioModel, error)
	ListMemberships(ctx context.Context, userID uuid.UUID) ([]Membership, error)

	SaveRefreshToken(ctx context.Context, rt *authModel.RefreshToken) error
	FindActiveRefreshToken(ctx context.Context, hash []byte) (*authModel.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
	RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
	BlacklistToken(ctx context.Context, key string, expiresAt time.Time) error
	CleanupExpired(ctx context.Context, now time.Time) (blacklist int64, refresh int64, err error)

	IsBlacklisted(ctx context.Context, key string) (bool, error)
	IsUserActive(ctx context.Context, userID uuid.UUID) (bool, error)
	ResolveRole(ctx context.Context, userID, studioID uuid.UUID) (string, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

/* ====================== USER ====================== */

func (r *gormRepository) FindUserByEmail(ctx context.Context, email string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", helper.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user and, when clientStudioID is set, the client role and profile in one tx.
func (r *gormRepository) CreateUser(ctx context.Context, user *authModel.UserModel, clientStudioID *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if clientStudioID == nil {
			return nil
		}
		return addClientMembership(tx, user, *clientStudioID)
	})
}

func (r *gormRepository) EnsureClientMembership(ctx context.Context, user *authModel.UserModel, studioID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&authModel.UserRoleModel{}).
			Where("user_id = ? AND studio_id = ?", user.ID, studioID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		return addClientMembership(tx, user, studioID)
	})
}

func addClientMembership(tx *gorm.DB, user *authModel.UserModel, studioID uuid.UUID) error {
	if err := tx.Create(&authModel.UserRoleModel{
		UserID:   user.ID,
		StudioID: studioID,
		Role:     constants.RoleClient,
	}).Error; err != nil {
		return err
	}

	// link an existing client profile with the same email before creating a new one
	res := tx.Model(&clientModel.ClientModel{}).
		Where("studio_id = ? AND LOWER(email) = ? AND user_id IS NULL", studioID, user.Email).
		Update("user_id", user.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	first, last := helper.SplitFullName(user.FullName)
	return tx.Create(&clientModel.ClientModel{
		StudioID:  studioID,
		UserID:    &user.ID,
		FirstName: first,
		LastName:  last,
		Email:     user.Email,
		Status:    clientModel.StatusPending,
	}).Error
}

func (r *gormRepository) LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	return r.db.WithContext(ctx).Model(&authModel.UserModel{}).
		Where("id = ?", userID).
		Update("google_id", googleID).Error
}

/* ====================== STUDIO / ROLES ====================== */

func (r *gormRepository) FindStudioBySlug(ctx context.Context, slug string) (*studioModel.StudioModel, error) {
	var s studioModel.StudioModel
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active", slug).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) ListMemberships(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	var rows []Membership
	err := r.db.WithContext(ctx).
		Table("user_roles ur").
		Select("ur.studio_id, s.slug AS studio_slug, s.name AS studio_name, ur.role").
		Joins("JOIN studios s ON s.id = ur.studio_id AND s.is_active").
		Where("ur.user_id = ?", userID).
		Order("s.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return CollapseMemberships(rows), nil
}

// CollapseMemberships keeps the highest-priority role per studio, then orders studios
// by that role (admin first) keeping the original order on ties.
func CollapseMemberships(rows []Membership) []Membership {
	idx := make(map[uuid.UUID]int, len(rows))
	out := make([]Membership, 0, len(rows))
	for _, m := range rows {
		if i, ok := idx[m.StudioID]; ok {
			if constants.RolePriority(m.Role) > constants.RolePriority(out[i].Role) {
				out[i].Role = m.Role
			}
			continue
		}
		idx[m.StudioID] = len(out)
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return constants.RolePriority(out[i].Role) > constants.RolePriority(out[j].Role)
	})
	return out
}

func (r *gormRepository) ResolveRole(ctx context.Context, userID, studioID uuid.UUID) (string, error) {
	var roles []string
	if err := r.db.WithContext(ctx).
		Model(&authModel.UserRoleModel{}).
		Where("user_id = ? AND studio_id = ?", userID, studioID).
		Pluck("role", &roles).Error; err != nil {
		return "", err
	}
	best := ""
	for _, role := range roles {
		if constants.RolePriority(role) > constants.RolePriority(best) {
			best = role
		}
	}
	return best, nil
}

func (r *gormRepository) IsUserActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	var active bool
	err := r.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ? AND is_active)`, userID).
		Scan(&active).Error
	return active, err
}

/* ====================== TOKENS ====================== */

func (r *gormRepository) SaveRefreshToken(ctx context.Context, rt *authModel.RefreshToken) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *gormRepository) FindActiveRefreshToken(ctx context.Context, hash []byte) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > NOW()", hash).
		First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *gormRepository) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&authModel.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now().UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&authModel.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now().UTC()).Error
}

func (r *gormRepository) BlacklistToken(ctx context.Context, key string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).Create(&authModel.TokenBlacklist{
		Token:     key,
		ExpiredAt: expiresAt.UTC(),
	}).Error
	if helper.IsUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *gormRepository) IsBlacklisted(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE token = ? AND expired_at > NOW())`, key).
		Scan(&exists).Error
	return exists, err
}

func (r *gormRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, int64, error) {
	bl := r.db.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at <= ?`, now.UTC())
	if bl.Error != nil {
		return 0, 0, bl.Error
	}
	rt := r.db.WithContext(ctx).Exec(
		`DELETE FROM refresh_tokens WHERE expires_at <= ? OR revoked_at <= ?`,
		now.UTC(), now.UTC().Add(-24*time.Hour),
	)
	if rt.Error != nil {
		return bl.RowsAffected, 0, rt.Error
	}
	return bl.RowsAffected, rt.RowsAffected, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
