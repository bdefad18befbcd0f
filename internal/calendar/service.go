package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

// Policy decides which days a user may edit.
type Policy string

const (
	// PolicyLocked allows edits to today only and never un-marks a completed day.
	PolicyLocked Policy = "locked"
	// PolicyOpen allows any day to be toggled or annotated.
	PolicyOpen Policy = "open"
)

// Service wraps the ledger with the configured editing policy and analytics.
type Service struct {
	repo   Repository
	ledger *Ledger
	clock  clock.Clock
	policy Policy
}

// NewService creates a Service. An empty policy means PolicyLocked.
func NewService(repo Repository, c clock.Clock, policy Policy) *Service {
	if policy == "" {
		policy = PolicyLocked
	}
	return &Service{repo: repo, ledger: NewLedger(repo), clock: c, policy: policy}
}

// Policy returns the active editing policy.
func (s *Service) Policy() Policy { return s.policy }

// ToggleDay flips the completion of date. The returned day is nil when the
// toggle removed the record.
func (s *Service) ToggleDay(ctx context.Context, userID, date string) (*models.CalendarDay, error) {
	if err := s.checkEditable(date); err != nil {
		return nil, err
	}
	if s.policy == PolicyLocked {
		existing, err := s.ledger.lookup(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Completed {
			return nil, apperr.Precondition("completed days cannot be unmarked")
		}
	}

	d, err := s.ledger.ToggleDay(ctx, userID, date, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("toggle day: %w", err)
	}
	slog.Info("calendar day toggled",
		slog.String("user_id", userID),
		slog.String("date", date),
		slog.Bool("completed", d != nil),
	)
	return d, nil
}

// SetNote annotates date with a note and an optional day goal.
func (s *Service) SetNote(ctx context.Context, userID, date string, note, dayGoal *string) (*models.CalendarDay, error) {
	if err := s.checkEditable(date); err != nil {
		return nil, err
	}
	d, err := s.ledger.SetNote(ctx, userID, date, note, dayGoal, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("set note: %w", err)
	}
	return d, nil
}

// ListDays returns every recorded day of userID.
func (s *Service) ListDays(ctx context.Context, userID string) ([]models.CalendarDay, error) {
	return s.repo.ListDays(ctx, userID)
}

// GetDay returns the record of date or apperr.ErrNotFound.
func (s *Service) GetDay(ctx context.Context, userID, date string) (*models.CalendarDay, error) {
	if _, err := clock.ParseDate(date); err != nil {
		return nil, err
	}
	return s.repo.GetDay(ctx, userID, date)
}

// DeleteDay removes the record of date. Under the locked policy a completed
// day cannot be removed, since that would un-mark it.
func (s *Service) DeleteDay(ctx context.Context, userID, date string) error {
	if err := s.checkEditable(date); err != nil {
		return err
	}
	if s.policy == PolicyLocked {
		existing, err := s.repo.GetDay(ctx, userID, date)
		if err != nil {
			return err
		}
		if existing.Completed {
			return apperr.Precondition("completed days cannot be unmarked")
		}
	}
	return s.repo.DeleteDay(ctx, userID, date)
}

// Stats returns completion statistics for year. Years outside 1..9999 fall
// back to the current year.
func (s *Service) Stats(ctx context.Context, userID string, year int) (models.CompletionStats, error) {
	if year < 1 || year > 9999 {
		year = s.clock.Now().In(s.clock.Location()).Year()
	}
	y := fmt.Sprintf("%04d", year)
	days, err := s.repo.ListDaysBetween(ctx, userID, y+"-01-01", y+"-12-31")
	if err != nil {
		return models.CompletionStats{}, err
	}
	return CompletionStats(days), nil
}

// ParseYear converts a query value to a year; anything unparsable yields 0.
func ParseYear(v string) int {
	y, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return y
}

// Streak returns the current streak of userID ending today.
func (s *Service) Streak(ctx context.Context, userID string) (int, error) {
	dates, err := s.repo.CompletedDatesDesc(ctx, userID)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(dates, clock.Today(s.clock)), nil
}

func (s *Service) checkEditable(date string) error {
	if _, err := clock.ParseDate(date); err != nil {
		return err
	}
	if s.policy == PolicyLocked && date != clock.Today(s.clock) {
		return apperr.Precondition("only today can be edited")
	}
	return nil
}
