// Package reminder builds WhatsApp deep links carrying the daily goal reminder.
// No message is sent server-side; the client opens the link.
package reminder

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

const (
	baseURL     = "https://wa.me/"
	defaultGoal = "Your daily goal"
	longDate    = "Monday, January 2, 2006"
)

// BuildReminderLink returns the wa.me link for phone with the reminder text.
// Every non-digit is stripped from phone.
func BuildReminderLink(phone, goal, note string, day time.Time) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", apperr.Invalid("phone", "must contain digits")
	}
	return baseURL + digits + "?text=" + encode(Message(goal, note, day)), nil
}

// Message renders the reminder text for day.
func Message(goal, note string, day time.Time) string {
	if strings.TrimFunc(goal, unicode.IsSpace) == "" {
		goal = defaultGoal
	}
	var b strings.Builder
	b.WriteString("🎯 *Daily Goal Reminder*\n\n")
	b.WriteString("📅 " + day.Format(longDate) + "\n\n")
	b.WriteString("*Your Goal:* " + goal + "\n\n")
	if note != "" {
		b.WriteString("📝 *Today's Note:* " + note + "\n\n")
	}
	b.WriteString("✅ Don't forget to mark today as complete!\n\n")
	b.WriteString("Keep going! 💪")
	return b.String()
}

// encode escapes s for a query value, with spaces as %20.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Users, goals and calendar days are read through these.
type (
	UserReader interface {
		GetUser(ctx context.Context, id string) (*models.User, error)
	}
	GoalReader interface {
		GetUserGoal(ctx context.Context, userID string) (*models.UserGoal, error)
	}
	DayReader interface {
		GetDay(ctx context.Context, userID, date string) (*models.CalendarDay, error)
	}
)

// Service assembles the reminder link of a user from their stored data.
type Service struct {
	users UserReader
	goals GoalReader
	days  DayReader
	clock clock.Clock
}

func NewService(users UserReader, goals GoalReader, days DayReader, c clock.Clock) *Service {
	return &Service{users: users, goals: goals, days: days, clock: c}
}

// Link returns the reminder link for userID using today's note, if any.
func (s *Service) Link(ctx context.Context, userID string) (string, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(u.Phone) == "" {
		return "", apperr.Precondition("phone number required")
	}

	goalText := defaultGoal
	g, err := s.goals.GetUserGoal(ctx, userID)
	switch {
	case err == nil && g.Goal != "":
		goalText = g.Goal
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return "", err
	}

	now := s.clock.Now().In(s.clock.Location())
	var note string
	d, err := s.days.GetDay(ctx, userID, clock.DateKey(now, now.Location()))
	switch {
	case err == nil && d.Note != nil:
		note = *d.Note
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return "", err
	}

	return BuildReminderLink(u.Phone, goalText, note, now)
}
