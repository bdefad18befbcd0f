// Package planner manages user goals and the tasks under them.
package planner

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

// Repository is the persistence the planner needs. *store.DB satisfies it.
type Repository interface {
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
	GetGoal(ctx context.Context, id, userID string) (*models.Goal, error)
	CreateGoal(ctx context.Context, g models.Goal) error
	DeleteGoal(ctx context.Context, id, userID string) error
	ListTasks(ctx context.Context, goalID, userID string) ([]models.Task, error)
	CreateTask(ctx context.Context, t models.Task) error
	UpdateTask(ctx context.Context, id, userID string, fn func(*models.Task)) (*models.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
}

// GoalInput is the payload for creating a goal.
type GoalInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (in GoalInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
	)
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	GoalID      string `json:"goalId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (in TaskInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.GoalID, validation.Required),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
	)
}

type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, c clock.Clock) *Service {
	return &Service{repo: repo, clock: c}
}

func (s *Service) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

func (s *Service) CreateGoal(ctx context.Context, userID string, in GoalInput) (*models.Goal, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}
	now := s.clock.Now()
	g := models.Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGoal removes a goal and all of its tasks.
func (s *Service) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.repo.DeleteGoal(ctx, id, userID)
}

// ListTasks returns the tasks of a goal the user owns.
func (s *Service) ListTasks(ctx context.Context, userID, goalID string) ([]models.Task, error) {
	if _, err := s.repo.GetGoal(ctx, goalID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, goalID, userID)
}

// CreateTask adds a task under a goal the user owns.
func (s *Service) CreateTask(ctx context.Context, userID string, in TaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}
	if _, err := s.repo.GetGoal(ctx, in.GoalID, userID); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	t := models.Task{
		ID:          uuid.NewString(),
		GoalID:      in.GoalID,
		UserID:      userID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ToggleTask flips the completed flag of a task.
func (s *Service) ToggleTask(ctx context.Context, userID, id string) (*models.Task, error) {
	now := s.clock.Now()
	return s.repo.UpdateTask(ctx, id, userID, func(t *models.Task) {
		t.Completed = !t.Completed
		t.UpdatedAt = now
	})
}

func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	return s.repo.DeleteTask(ctx, id, userID)
}
