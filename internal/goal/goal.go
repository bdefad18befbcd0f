// Package goal stores the single free-text goal of each user.
package goal

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

// MaxLength bounds the goal text in characters.
const MaxLength = 500

// Repository is the persistence the goal service needs.
type Repository interface {
	GetUserGoal(ctx context.Context, userID string) (*models.UserGoal, error)
	UpsertUserGoal(ctx context.Context, g models.UserGoal) (*models.UserGoal, error)
}

type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, c clock.Clock) *Service {
	return &Service{repo: repo, clock: c}
}

// Get returns the goal of userID. A user without a goal gets an empty one.
func (s *Service) Get(ctx context.Context, userID string) (*models.UserGoal, error) {
	g, err := s.repo.GetUserGoal(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &models.UserGoal{UserID: userID}, nil
	}
	return g, err
}

// Set overwrites the goal of userID.
func (s *Service) Set(ctx context.Context, userID, text string) (*models.UserGoal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Invalid("goal", "cannot be blank")
	}
	if utf8.RuneCountInString(text) > MaxLength {
		return nil, apperr.Invalid("goal", "too long")
	}
	now := s.clock.Now()
	return s.repo.UpsertUserGoal(ctx, models.UserGoal{UserID: userID, Goal: text, CreatedAt: now, UpdatedAt: now})
}
