// Package links repairs user links for clients and trainers that were created before their user signed up.
package links

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/constants"
)

var (
	ErrStudioNotFound = errors.New("studio not found")
	ErrUserNotFound   = errors.New("user not found")

	errRollback = errors.New("dry run")
)

type Options struct {
	StudioSlug string
	GrantAdmin string // email
	DryRun     bool
}

type Summary struct {
	StudioID          uuid.UUID `json:"studio_id"`
	ClientsLinked     int64     `json:"clients_linked"`
	TrainersLinked    int64     `json:"trainers_linked"`
	RolesCreated      int64     `json:"roles_created"`
	DuplicatesRemoved int64     `json:"duplicates_removed"`
	AdminGranted      bool      `json:"admin_granted"`
	DryRun            bool      `json:"dry_run"`
}

func (s Summary) String() string {
	mode := "applied"
	if s.DryRun {
		mode = "dry run, rolled back"
	}
	return fmt.Sprintf("studio %s (%s): clients linked=%d trainers linked=%d roles created=%d duplicates removed=%d admin granted=%t",
		s.StudioID, mode, s.ClientsLinked, s.TrainersLinked, s.RolesCreated, s.DuplicatesRemoved, s.AdminGranted)
}

// Repair runs every step in one transaction. A dry run reports the same counts and rolls back.
func Repair(ctx context.Context, db *gorm.DB, opts Options, log *zap.Logger) (Summary, error) {
	sum := Summary{DryRun: opts.DryRun}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var id uuid.UUID
		if err := tx.Raw(`SELECT id FROM studios WHERE LOWER(slug) = LOWER(?)`, opts.StudioSlug).Scan(&id).Error; err != nil {
			return err
		}
		if id == uuid.Nil {
			return fmt.Errorf("%w: %s", ErrStudioNotFound, opts.StudioSlug)
		}
		sum.StudioID = id

		steps := []struct {
			name string
			sql  string
			args []any
			into *int64
		}{
			{"link clients", linkSQL("clients"), []any{id}, &sum.ClientsLinked},
			{"link trainers", linkSQL("trainers"), []any{id}, &sum.TrainersLinked},
			{"trainer roles", trainerRolesSQL, []any{id}, &sum.RolesCreated},
			{"client roles", clientRolesSQL, []any{id}, &sum.RolesCreated},
		}
		for _, st := range steps {
			res := tx.Exec(st.sql, st.args...)
			if res.Error != nil {
				return fmt.Errorf("%s: %w", st.name, res.Error)
			}
			*st.into += res.RowsAffected
			log.Debug(st.name, zap.Int64("rows", res.RowsAffected))
		}

		if email := strings.TrimSpace(opts.GrantAdmin); email != "" {
			granted, err := grantAdmin(tx, id, email)
			if err != nil {
				return err
			}
			sum.AdminGranted = granted
		}

		res := tx.Exec(dedupeSQL, id)
		if res.Error != nil {
			return fmt.Errorf("dedupe roles: %w", res.Error)
		}
		sum.DuplicatesRemoved = res.RowsAffected

		if opts.DryRun {
			return errRollback
		}
		return nil
	})
	if errors.Is(err, errRollback) {
		err = nil
	}
	return sum, err
}

func grantAdmin(tx *gorm.DB, studioID uuid.UUID, email string) (bool, error) {
	var userID uuid.UUID
	if err := tx.Raw(`SELECT id FROM users WHERE email = LOWER(?)`, email).Scan(&userID).Error; err != nil {
		return false, err
	}
	if userID == uuid.Nil {
		return false, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	res := tx.Exec(`
		INSERT INTO user_roles (user_id, studio_id, role)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM user_roles WHERE user_id = ? AND studio_id = ? AND role = ?)`,
		userID, studioID, constants.RoleAdmin, userID, studioID, constants.RoleAdmin)
	return res.RowsAffected > 0, res.Error
}

func linkSQL(table string) string {
	return `
		UPDATE ` + table + ` p SET user_id = u.id, updated_at = now()
		FROM users u
		WHERE p.studio_id = ? AND p.user_id IS NULL AND u.email = LOWER(p.email)`
}

const trainerRolesSQL = `
	INSERT INTO user_roles (user_id, studio_id, role)
	SELECT DISTINCT t.user_id, t.studio_id, 'trainer'
	FROM trainers t
	WHERE t.studio_id = ? AND t.user_id IS NOT NULL
	  AND NOT EXISTS (SELECT 1 FROM user_roles ur
	                  WHERE ur.user_id = t.user_id AND ur.studio_id = t.studio_id
	                    AND ur.role IN ('trainer', 'admin'))`

const clientRolesSQL = `
	INSERT INTO user_roles (user_id, studio_id, role)
	SELECT DISTINCT c.user_id, c.studio_id, 'client'
	FROM clients c
	WHERE c.studio_id = ? AND c.user_id IS NOT NULL
	  AND NOT EXISTS (SELECT 1 FROM user_roles ur
	                  WHERE ur.user_id = c.user_id AND ur.studio_id = c.studio_id)`

// keeps one row per user: admin over trainer over client, oldest first on ties
const dedupeSQL = `
	DELETE FROM user_roles ur
	USING (
		SELECT id, ROW_NUMBER() OVER (
			PARTITION BY user_id, studio_id
			ORDER BY CASE role WHEN 'admin' THEN 3 WHEN 'trainer' THEN 2 ELSE 1 END DESC, created_at
		) AS rn
		FROM user_roles WHERE studio_id = ?
	) d
	WHERE ur.id = d.id AND d.rn > 1`
