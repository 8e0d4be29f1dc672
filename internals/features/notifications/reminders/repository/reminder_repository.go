package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Batch is one class on one date with everyone holding a seat in it.
type Batch struct {
	ClassID    uuid.UUID      `gorm:"column:class_id"`
	StudioID   uuid.UUID      `gorm:"column:studio_id"`
	StudioName string         `gorm:"column:studio_name"`
	ClassName  string         `gorm:"column:class_name"`
	Location   string         `gorm:"column:location"`
	StartTime  string         `gorm:"column:start_time"`
	EndTime    string         `gorm:"column:end_time"`
	Emails     pq.StringArray `gorm:"column:emails;type:text[]"`
	Names      pq.StringArray `gorm:"column:names;type:text[]"`
}

type ClassRef struct {
	ID        uuid.UUID  `gorm:"column:id"`
	ClassDate *time.Time `gorm:"column:class_date"`
	Timezone  string     `gorm:"column:timezone"`
}

type StudioRef struct {
	ID       uuid.UUID `gorm:"column:id"`
	Timezone string    `gorm:"column:timezone"`
}

type Repository interface {
	Class(ctx context.Context, studioID, classID uuid.UUID) (*ClassRef, error)
	ActiveStudios(ctx context.Context) ([]StudioRef, error)
	// Batches returns classes running on date with their recipients; classID narrows to one class.
	Batches(ctx context.Context, studioID uuid.UUID, classID *uuid.UUID, date time.Time) ([]Batch, error)
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Class(ctx context.Context, studioID, classID uuid.UUID) (*ClassRef, error) {
	var out ClassRef
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.class_date, s.timezone
		FROM classes c JOIN studios s ON s.id = c.studio_id
		WHERE c.id = ? AND c.studio_id = ?`, classID, studioID).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &out, nil
}

func (r *gormRepository) ActiveStudios(ctx context.Context) ([]StudioRef, error) {
	var out []StudioRef
	err := r.db.WithContext(ctx).Raw(`SELECT id, timezone FROM studios WHERE is_active`).Scan(&out).Error
	return out, err
}

func (r *gormRepository) Batches(ctx context.Context, studioID uuid.UUID, classID *uuid.UUID, date time.Time) ([]Batch, error) {
	q := `
		SELECT c.id AS class_id, c.studio_id, s.name AS studio_name, c.name AS class_name,
		       COALESCE(c.location, '') AS location, c.start_time, c.end_time,
		       array_agg(cl.email ORDER BY cl.email) AS emails,
		       array_agg(TRIM(cl.first_name || ' ' || cl.last_name) ORDER BY cl.email) AS names
		FROM classes c
		JOIN studios s ON s.id = c.studio_id
		JOIN class_enrollments e ON e.class_id = c.id AND e.status <> 'cancelled'
		JOIN clients cl ON cl.id = e.client_id AND cl.email <> ''
		WHERE c.studio_id = ? AND c.status = 'active'
		  AND (c.class_date = ? OR (c.class_date IS NULL AND c.day_of_week = ?))`
	args := []any{studioID, date, int(date.Weekday())}
	if classID != nil {
		q += ` AND c.id = ?`
		args = append(args, *classID)
	}
	q += ` GROUP BY c.id, s.name ORDER BY c.start_time`

	var out []Batch
	err := r.db.WithContext(ctx).Raw(q, args...).Scan(&out).Error
	return out, err
}
