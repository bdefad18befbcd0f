package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

// Repository is the persistence the service needs. *store.DB satisfies it.
type Repository interface {
	EnsureAttendance(ctx context.Context, userID, date string, now time.Time) (*models.AttendanceRecord, error)
	MutateAttendance(ctx context.Context, userID, date string, now time.Time, fn func(*models.AttendanceRecord) error) (*models.AttendanceRecord, error)
	ListAttendance(ctx context.Context, userID, from, to string) ([]models.AttendanceRecord, error)
}

// Service applies transitions to today's record of a user.
type Service struct {
	repo  Repository
	clock clock.Clock
}

// NewService creates a Service.
func NewService(repo Repository, c clock.Clock) *Service {
	return &Service{repo: repo, clock: c}
}

// Today returns today's summary, creating an empty record on first access.
func (s *Service) Today(ctx context.Context, userID string) (Summary, error) {
	now := s.clock.Now()
	rec, err := s.repo.EnsureAttendance(ctx, userID, clock.DateKey(now, s.clock.Location()), now)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(rec, now), nil
}

func (s *Service) ClockIn(ctx context.Context, userID string) (Summary, error) {
	return s.apply(ctx, userID, "clock-in", ClockIn)
}

func (s *Service) StartBreak(ctx context.Context, userID string) (Summary, error) {
	return s.apply(ctx, userID, "break-start", StartBreak)
}

func (s *Service) EndBreak(ctx context.Context, userID string) (Summary, error) {
	return s.apply(ctx, userID, "break-end", EndBreak)
}

func (s *Service) ClockOut(ctx context.Context, userID string) (Summary, error) {
	return s.apply(ctx, userID, "clock-out", ClockOut)
}

// History returns summaries of the records with from <= date <= to.
// Dates are YYYY-MM-DD keys; to defaults to today and from to 30 days before to.
func (s *Service) History(ctx context.Context, userID, from, to string) ([]Summary, error) {
	now := s.clock.Now()
	if to == "" {
		to = clock.DateKey(now, s.clock.Location())
	} else if _, err := clock.ParseDate(to); err != nil {
		return nil, err
	}
	if from == "" {
		var err error
		if from, err = clock.AddDays(to, -30); err != nil {
			return nil, err
		}
	} else if _, err := clock.ParseDate(from); err != nil {
		return nil, err
	}

	recs, err := s.repo.ListAttendance(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(recs))
	for i := range recs {
		out = append(out, Summarize(&recs[i], now))
	}
	return out, nil
}

func (s *Service) apply(ctx context.Context, userID, action string, fn func(*models.AttendanceRecord, time.Time) error) (Summary, error) {
	now := s.clock.Now()
	date := clock.DateKey(now, s.clock.Location())
	rec, err := s.repo.MutateAttendance(ctx, userID, date, now, func(r *models.AttendanceRecord) error {
		return fn(r, now)
	})
	if err != nil {
		return Summary{}, fmt.Errorf("attendance %s: %w", action, err)
	}
	slog.Info("attendance transition",
		slog.String("user_id", userID),
		slog.String("action", action),
		slog.String("status", string(rec.Status())),
	)
	return Summarize(rec, now), nil
}
