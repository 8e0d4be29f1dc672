package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studiofit_backend/internals/helpers/dbtime"
)

type AdminDashboard struct {
	ClientsByStatus  []StatusCount  `json:"clients_by_status"`
	TotalClients     int64           `json:"total_clients"`
	Trainers         int64           `json:"trainers"`
	TodaysClasses    []ClassSummary `json:"todays_classes"`
	UnpaidInvoices   int64           `json:"unpaid_invoices"`
	RevenueThisMonth float64         `json:"revenue_this_month"`
	Date             string          `json:"date"`
}

type TrainerDashboard struct {
	TodaysClasses []ClassSummary `json:"todays_classes"`
	ClientCount   int64          `json:"client_count"`
	Availability  []Slot         `json:"availability"`
	Date          string         `json:"date"`
}

type ClientDashboard struct {
	UpcomingEnrollments []UpcomingEnrollment `json:"upcoming_enrollments"`
	PointsBalance       int                  `json:"points_balance"`
	LifetimePoints      int                  `json:"lifetime_points"`
	Rewards             []Reward             `json:"rewards"`
	OpenInvoices        []OpenInvoice        `json:"open_invoices"`
}

type Service struct {
	q   Queries
	now func() time.Time
}

func NewService(q Queries) *Service {
	return &Service{q: q, now: time.Now}
}

// today is the studio's local calendar date.
func (s *Service) today(ctx context.Context, studioID uuid.UUID) (time.Time, time.Time, error) {
	tz, err := s.q.StudioTimezone(ctx, studioID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	now := s.now().In(dbtime.LoadLocation(tz))
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day, dbtime.StartOfMonth(now), nil
}

func (s *Service) Admin(ctx context.Context, studioID uuid.UUID) (*AdminDashboard, error) {
	day, month, err := s.today(ctx, studioID)
	if err != nil {
		return nil, err
	}
	out := &AdminDashboard{Date: day.Format(dbtime.DateLayout)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.ClientsByStatus, err = s.q.ClientsByStatus(gctx, studioID)
		return err
	})
	g.Go(func() (err error) {
		out.Trainers, err = s.q.TrainerCount(gctx, studioID)
		return err
	})
	g.Go(func() (err error) {
		out.TodaysClasses, err = s.q.ClassesOn(gctx, studioID, nil, day)
		return err
	})
	g.Go(func() (err error) {
		out.UnpaidInvoices, err = s.q.UnpaidInvoices(gctx, studioID)
		return err
	})
	g.Go(func() (err error) {
		out.RevenueThisMonth, err = s.q.RevenueSince(gctx, studioID, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, sc := range out.ClientsByStatus {
		out.TotalClients += sc.Count
	}
	return out, nil
}

func (s *Service) Trainer(ctx context.Context, studioID, trainerID uuid.UUID) (*TrainerDashboard, error) {
	day, _, err := s.today(ctx, studioID)
	if err != nil {
		return nil, err
	}
	out := &TrainerDashboard{Date: day.Format(dbtime.DateLayout)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TodaysClasses, err = s.q.ClassesOn(gctx, studioID, &trainerID, day)
		return err
	})
	g.Go(func() (err error) {
		out.ClientCount, err = s.q.TrainerClientCount(gctx, studioID, trainerID)
		return err
	})
	g.Go(func() (err error) {
		out.Availability, err = s.q.UpcomingAvailability(gctx, trainerID, day)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Client(ctx context.Context, studioID, clientID uuid.UUID) (*ClientDashboard, error) {
	day, _, err := s.today(ctx, studioID)
	if err != nil {
		return nil, err
	}
	out := &ClientDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.UpcomingEnrollments, err = s.q.UpcomingEnrollments(gctx, clientID, day)
		return err
	})
	g.Go(func() (err error) {
		out.PointsBalance, out.LifetimePoints, err = s.q.PointsBalance(gctx, clientID)
		return err
	})
	g.Go(func() (err error) {
		out.Rewards, err = s.q.Rewards(gctx, clientID)
		return err
	})
	g.Go(func() (err error) {
		out.OpenInvoices, err = s.q.OpenInvoices(gctx, clientID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
