package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueries struct {
	tz      string
	calls   atomic.Int32
	failOn  string
	classOn time.Time
	since   time.Time
}

func (f *fakeQueries) hit(name string) error {
	f.calls.Add(1)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeQueries) ClientsByStatus(context.Context, uuid.UUID) ([]StatusCount, error) {
	return []StatusCount{{"enrolled", 4}, {"pending", 2}}, f.hit("clients")
}
func (f *fakeQueries) TrainerCount(context.Context, uuid.UUID) (int64, error) {
	return 3, f.hit("trainers")
}
func (f *fakeQueries) ClassesOn(_ context.Context, _ uuid.UUID, _ *uuid.UUID, day time.Time) ([]ClassSummary, error) {
	f.classOn = day
	return []ClassSummary{{Name: "Spin"}}, f.hit("classes")
}
func (f *fakeQueries) UnpaidInvoices(context.Context, uuid.UUID) (int64, error) {
	return 5, f.hit("invoices")
}
func (f *fakeQueries) RevenueSince(_ context.Context, _ uuid.UUID, since time.Time) (float64, error) {
	f.since = since
	return 420.5, f.hit("revenue")
}
func (f *fakeQueries) TrainerClientCount(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 7, f.hit("trainer_clients")
}
func (f *fakeQueries) UpcomingAvailability(context.Context, uuid.UUID, time.Time) ([]Slot, error) {
	return []Slot{{DayOfWeek: 1}}, f.hit("availability")
}
func (f *fakeQueries) UpcomingEnrollments(context.Context, uuid.UUID, time.Time) ([]UpcomingEnrollment, error) {
	return []UpcomingEnrollment{{ClassName: "Spin"}}, f.hit("enrollments")
}
func (f *fakeQueries) PointsBalance(context.Context, uuid.UUID) (int, int, error) {
	return 120, 300, f.hit("points")
}
func (f *fakeQueries) Rewards(context.Context, uuid.UUID) ([]Reward, error) {
	return nil, f.hit("rewards")
}
func (f *fakeQueries) OpenInvoices(context.Context, uuid.UUID) ([]OpenInvoice, error) {
	return []OpenInvoice{{Number: "INV-1"}}, f.hit("open_invoices")
}
func (f *fakeQueries) StudioTimezone(context.Context, uuid.UUID) (string, error) {
	return f.tz, nil
}

func fixedService(q Queries, at time.Time) *Service {
	s := NewService(q)
	s.now = func() time.Time { return at }
	return s
}

func TestAdminDashboardAggregates(t *testing.T) {
	q := &fakeQueries{tz: "Asia/Jakarta"}
	// 23:30 UTC on the 16th is already the 17th in Jakarta
	s := fixedService(q, time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC))

	d, err := s.Admin(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int32(5), q.calls.Load())
	assert.Equal(t, int64(6), d.TotalClients)
	assert.Equal(t, int64(3), d.Trainers)
	assert.Equal(t, int64(5), d.UnpaidInvoices)
	assert.Equal(t, 420.5, d.RevenueThisMonth)
	assert.Equal(t, "2026-10-17", d.Date)
	assert.Equal(t, "2026-10-17", q.classOn.Format("2006-01-02"))
	assert.Equal(t, 1, q.since.Day())
}

func TestAdminDashboardFailsWhenAnyReadFails(t *testing.T) {
	s := fixedService(&fakeQueries{tz: "UTC", failOn: "revenue"}, time.Now())
	_, err := s.Admin(context.Background(), uuid.New())
	assert.EqualError(t, err, "revenue failed")
}

func TestTrainerAndClientDashboards(t *testing.T) {
	s := fixedService(&fakeQueries{tz: ""}, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))

	td, err := s.Trainer(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(7), td.ClientCount)
	assert.Len(t, td.Availability, 1)

	cd, err := s.Client(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 120, cd.PointsBalance)
	assert.Equal(t, 300, cd.LifetimePoints)
	assert.Len(t, cd.OpenInvoices, 1)
}
