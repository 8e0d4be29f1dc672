// Package exercises serves the optional exercise_library table.
package exercises

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	helper "studiofit_backend/internals/helpers"
)

const MsgNotConfigured = "Exercise library not configured"

type Repository interface {
	List(ctx context.Context, search string, p helper.Paging) ([]map[string]any, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// List returns raw rows; the table is provisioned out of band, so its columns aren't fixed here.
func (r *gormRepository) List(ctx context.Context, search string, p helper.Paging) ([]map[string]any, error) {
	tx := r.db.WithContext(ctx).Table("exercise_library")
	if search != "" {
		tx = tx.Where("name ILIKE ?", "%"+search+"%")
	}
	var rows []map[string]any
	err := tx.Order("name ASC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error
	return rows, err
}

type Controller struct {
	repo Repository
	log  *zap.Logger
}

func NewController(repo Repository, log *zap.Logger) *Controller {
	return &Controller{repo: repo, log: log}
}

// 🟢 GET /api/exercises?q=
func (ctrl *Controller) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, err := ctrl.repo.List(c.UserContext(), strings.TrimSpace(c.Query("q")), p)
	if helper.PgErrorCode(err) == helper.PgUndefinedTable {
		ctrl.log.Warn("exercise_library table missing")
		return helper.JsonOK(c, MsgNotConfigured, []any{})
	}
	if err != nil {
		return helper.FromError(c, err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return helper.JsonOK(c, "ok", rows)
}

func Routes(api fiber.Router, ctrl *Controller) {
	api.Get("/exercises", ctrl.List)
}
