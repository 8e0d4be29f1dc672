package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ClassSummary struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	Location          *string   `json:"location"`
	CurrentEnrollment int       `json:"current_enrollment"`
	MaxCapacity       int       `json:"max_capacity"`
}

type Slot struct {
	ID           uuid.UUID  `json:"id"`
	DayOfWeek    int16      `json:"day_of_week"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	SpecificDate *time.Time `json:"specific_date"`
}

type UpcomingEnrollment struct {
	EnrollmentID  uuid.UUID  `json:"enrollment_id"`
	ClassID       uuid.UUID  `json:"class_id"`
	ClassName     string     `json:"class_name"`
	ClassDate     *time.Time `json:"class_date"`
	StartTime     string     `json:"start_time"`
	PaymentStatus string     `json:"payment_status"`
}

type Reward struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	IssuedAt    time.Time `json:"issued_at"`
}

type OpenInvoice struct {
	ID          uuid.UUID  `json:"id"`
	Number      string     `json:"number"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// Queries are the independent reads behind the dashboards; each is safe to run concurrently.
type Queries interface {
	ClientsByStatus(ctx context.Context, studioID uuid.UUID) ([]StatusCount, error)
	TrainerCount(ctx context.Context, studioID uuid.UUID) (int64, error)
	ClassesOn(ctx context.Context, studioID uuid.UUID, trainerID *uuid.UUID, day time.Time) ([]ClassSummary, error)
	UnpaidInvoices(ctx context.Context, studioID uuid.UUID) (int64, error)
	RevenueSince(ctx context.Context, studioID uuid.UUID, since time.Time) (float64, error)
	TrainerClientCount(ctx context.Context, studioID, trainerID uuid.UUID) (int64, error)
	UpcomingAvailability(ctx context.Context, trainerID uuid.UUID, from time.Time) ([]Slot, error)
	UpcomingEnrollments(ctx context.Context, clientID uuid.UUID, from time.Time) ([]UpcomingEnrollment, error)
	PointsBalance(ctx context.Context, clientID uuid.UUID) (int, int, error)
	Rewards(ctx context.Context, clientID uuid.UUID) ([]Reward, error)
	OpenInvoices(ctx context.Context, clientID uuid.UUID) ([]OpenInvoice, error)
	StudioTimezone(ctx context.Context, studioID uuid.UUID) (string, error)
}

type gormQueries struct {
	db *gorm.DB
}

func NewQueries(db *gorm.DB) Queries {
	return &gormQueries{db: db}
}

const ymd = "2006-01-02"

func (q *gormQueries) ClientsByStatus(ctx context.Context, studioID uuid.UUID) ([]StatusCount, error) {
	var out []StatusCount
	err := q.db.WithContext(ctx).Table("clients").
		Select("status, COUNT(*) AS count").
		Where("studio_id = ?", studioID).
		Group("status").Order("status").
		Scan(&out).Error
	return out, err
}

func (q *gormQueries) TrainerCount(ctx context.Context, studioID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.WithContext(ctx).Table("trainers").Where("studio_id = ? AND is_active", studioID).Count(&n).Error
	return n, err
}

func (q *gormQueries) ClassesOn(ctx context.Context, studioID uuid.UUID, trainerID *uuid.UUID, day time.Time) ([]ClassSummary, error) {
	tx := q.db.WithContext(ctx).Table("classes").
		Select("id, name, start_time, end_time, location, current_enrollment, max_capacity").
		Where("studio_id = ? AND status = 'active'", studioID).
		Where("class_date = ? OR (class_date IS NULL AND day_of_week = ?)", day.Format(ymd), int(day.Weekday()))
	if trainerID != nil {
		tx = tx.Where("trainer_id = ?", *trainerID)
	}
	var out []ClassSummary
	err := tx.Order("start_time").Scan(&out).Error
	return out, err
}

func (q *gormQueries) UnpaidInvoices(ctx context.Context, studioID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.WithContext(ctx).Table("invoices").Where("studio_id = ? AND status = 'open'", studioID).Count(&n).Error
	return n, err
}

func (q *gormQueries) RevenueSince(ctx context.Context, studioID uuid.UUID, since time.Time) (float64, error) {
	var total float64
	err := q.db.WithContext(ctx).Table("invoices").
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("studio_id = ? AND status = 'paid' AND paid_at >= ?", studioID, since).
		Scan(&total).Error
	return total, err
}

func (q *gormQueries) TrainerClientCount(ctx context.Context, studioID, trainerID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.WithContext(ctx).Table("clients").Where("studio_id = ? AND trainer_id = ?", studioID, trainerID).Count(&n).Error
	return n, err
}

func (q *gormQueries) UpcomingAvailability(ctx context.Context, trainerID uuid.UUID, from time.Time) ([]Slot, error) {
	var out []Slot
	err := q.db.WithContext(ctx).Table("trainer_availability").
		Select("id, day_of_week, start_time, end_time, specific_date").
		Where("trainer_id = ? AND is_available", trainerID).
		Where("specific_date IS NULL OR specific_date >= ?", from.Format(ymd)).
		Order("specific_date ASC NULLS FIRST, day_of_week, start_time").
		Scan(&out).Error
	return out, err
}

func (q *gormQueries) UpcomingEnrollments(ctx context.Context, clientID uuid.UUID, from time.Time) ([]UpcomingEnrollment, error) {
	var out []UpcomingEnrollment
	err := q.db.WithContext(ctx).Raw(`
		SELECT e.id AS enrollment_id, k.id AS class_id, k.name AS class_name, k.class_date, k.start_time, e.payment_status
		  FROM class_enrollments e
		  JOIN classes k ON k.id = e.class_id
		 WHERE e.client_id = ? AND e.status <> 'cancelled'
		   AND (k.class_date IS NULL OR k.class_date >= ?)
		 ORDER BY k.class_date ASC NULLS LAST, k.start_time
		 LIMIT 10`, clientID, from.Format(ymd)).
		Scan(&out).Error
	return out, err
}

func (q *gormQueries) PointsBalance(ctx context.Context, clientID uuid.UUID) (int, int, error) {
	var row struct {
		Balance        int
		LifetimeEarned int
	}
	err := q.db.WithContext(ctx).Table("client_points").
		Select("balance, lifetime_earned").
		Where("client_id = ?", clientID).
		Limit(1).Scan(&row).Error
	return row.Balance, row.LifetimeEarned, err
}

func (q *gormQueries) Rewards(ctx context.Context, clientID uuid.UUID) ([]Reward, error) {
	var out []Reward
	err := q.db.WithContext(ctx).Raw(`
		SELECT r.id, t.name, t.reward_description AS description, r.status, r.issued_at
		  FROM client_rewards r
		  JOIN reward_thresholds t ON t.id = r.threshold_id
		 WHERE r.client_id = ?
		 ORDER BY r.issued_at DESC`, clientID).
		Scan(&out).Error
	return out, err
}

func (q *gormQueries) OpenInvoices(ctx context.Context, clientID uuid.UUID) ([]OpenInvoice, error) {
	var out []OpenInvoice
	err := q.db.WithContext(ctx).Table("invoices").
		Select("id, number, amount, currency, description, due_date").
		Where("client_id = ? AND status = 'open'", clientID).
		Order("due_date ASC NULLS LAST, created_at").
		Scan(&out).Error
	return out, err
}

func (q *gormQueries) StudioTimezone(ctx context.Context, studioID uuid.UUID) (string, error) {
	var tz []string
	err := q.db.WithContext(ctx).Table("studios").Where("id = ?", studioID).Limit(1).Pluck("timezone", &tz).Error
	if err != nil || len(tz) == 0 {
		return "", err
	}
	return tz[0], nil
}
