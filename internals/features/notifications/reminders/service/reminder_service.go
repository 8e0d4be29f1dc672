package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studiofit_backend/internals/features/notifications/mailer"
	"studiofit_backend/internals/features/notifications/reminders/dto"
	"studiofit_backend/internals/features/notifications/reminders/repository"
	"studiofit_backend/internals/helpers/dbtime"
)

type Service struct {
	repo   repository.Repository
	mailer mailer.Mailer
	log    *zap.Logger
	now    func() time.Time
}

func New(repo repository.Repository, m mailer.Mailer, log *zap.Logger) *Service {
	return &Service{repo: repo, mailer: m, log: log, now: time.Now}
}

// SendForClass emails everyone holding a seat in the class on date.
// A nil date means the class's own date for one-off classes, today in the studio zone otherwise.
func (s *Service) SendForClass(ctx context.Context, studioID, classID uuid.UUID, date *time.Time) (*dto.Report, error) {
	class, err := s.repo.Class(ctx, studioID, classID)
	if err != nil {
		return nil, err
	}
	var d time.Time
	switch {
	case date != nil:
		d = *date
	case class.ClassDate != nil:
		d = *class.ClassDate
	default:
		d = dateIn(s.now(), dbtime.LoadLocation(class.Timezone))
	}
	batches, err := s.repo.Batches(ctx, studioID, &classID, d)
	if err != nil {
		return nil, err
	}
	return s.fanOut(ctx, batches, d), nil
}

// SendNextDay covers every active studio, using tomorrow in each studio's own zone.
func (s *Service) SendNextDay(ctx context.Context) (*dto.Report, error) {
	studios, err := s.repo.ActiveStudios(ctx)
	if err != nil {
		return nil, err
	}
	total := &dto.Report{Results: []dto.Result{}}
	now := s.now()
	for _, st := range studios {
		d := dateIn(now, dbtime.LoadLocation(st.Timezone)).AddDate(0, 0, 1)
		batches, err := s.repo.Batches(ctx, st.ID, nil, d)
		if err != nil {
			s.log.Error("load reminder batches", zap.String("studio_id", st.ID.String()), zap.Error(err))
			continue
		}
		total.Merge(s.fanOut(ctx, batches, d))
	}
	return total, nil
}

func (s *Service) fanOut(ctx context.Context, batches []repository.Batch, date time.Time) *dto.Report {
	rep := &dto.Report{Results: []dto.Result{}}
	day := date.Format(dbtime.DateLayout)
	for _, b := range batches {
		for i, email := range b.Emails {
			name := ""
			if i < len(b.Names) {
				name = b.Names[i]
			}
			msg := mailer.ClassReminder(email, mailer.ReminderData{
				ClientName: name,
				ClassName:  b.ClassName,
				Date:       day,
				StartTime:  b.StartTime,
				EndTime:    b.EndTime,
				Location:   b.Location,
				StudioName: b.StudioName,
			})
			_, err := s.mailer.Send(ctx, msg)
			if err != nil {
				s.log.Warn("class reminder failed",
					zap.String("class_id", b.ClassID.String()),
					zap.String("email", email),
					zap.Error(err))
			}
			rep.Add(email, err)
		}
	}
	return rep
}

func dateIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
