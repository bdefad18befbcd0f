// Package calendar maintains the per-day completion ledger and derives
// completion statistics and streaks from it.
package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

// Repository is the persistence the calendar needs. *store.DB satisfies it.
type Repository interface {
	GetDay(ctx context.Context, userID, date string) (*models.CalendarDay, error)
	UpsertDay(ctx context.Context, d models.CalendarDay) (*models.CalendarDay, error)
	DeleteDay(ctx context.Context, userID, date string) error
	ListDays(ctx context.Context, userID string) ([]models.CalendarDay, error)
	ListDaysBetween(ctx context.Context, userID, from, to string) ([]models.CalendarDay, error)
	CompletedDatesDesc(ctx context.Context, userID string) ([]string, error)
}

// Ledger applies the raw day mutations. It enforces no editing policy.
type Ledger struct {
	repo Repository
}

// NewLedger creates a Ledger over repo.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// ToggleDay deletes a completed record, otherwise marks the day completed
// keeping any existing note. It returns nil when the day ends up without a record.
func (l *Ledger) ToggleDay(ctx context.Context, userID, date string, now time.Time) (*models.CalendarDay, error) {
	existing, err := l.lookup(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Completed {
		if err := l.repo.DeleteDay(ctx, userID, date); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, nil
	}

	d := models.CalendarDay{UserID: userID, Date: date, CreatedAt: now}
	if existing != nil {
		d = *existing
	}
	d.Completed = true
	d.UpdatedAt = now
	return l.repo.UpsertDay(ctx, d)
}

// SetNote writes the note and day goal of a day, keeping its completed flag.
// Empty strings clear the fields.
func (l *Ledger) SetNote(ctx context.Context, userID, date string, note, dayGoal *string, now time.Time) (*models.CalendarDay, error) {
	existing, err := l.lookup(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	d := models.CalendarDay{UserID: userID, Date: date, CreatedAt: now}
	if existing != nil {
		d = *existing
	}
	d.Note = emptyToNil(note)
	d.DayGoal = emptyToNil(dayGoal)
	d.UpdatedAt = now
	return l.repo.UpsertDay(ctx, d)
}

func (l *Ledger) lookup(ctx context.Context, userID, date string) (*models.CalendarDay, error) {
	d, err := l.repo.GetDay(ctx, userID, date)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
