package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

// ListGoals returns the goals of userID, newest first.
func (db *DB) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, title, description, created_at, updated_at
		FROM goals WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list goals: %w", err)
	}
	defer rows.Close()

	out := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// GetGoal returns goal id owned by userID or apperr.ErrNotFound.
func (db *DB) GetGoal(ctx context.Context, id, userID string) (*models.Goal, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, created_at, updated_at
		FROM goals WHERE id = ? AND user_id = ?
	`, id, userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get goal: %w", err)
	}
	return g, nil
}

// CreateGoal inserts g.
func (db *DB) CreateGoal(ctx context.Context, g models.Goal) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.ID, g.UserID, g.Title, g.Description, formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: create goal: %w", err)
	}
	return nil
}

// DeleteGoal removes goal id of userID together with its tasks.
func (db *DB) DeleteGoal(ctx context.Context, id, userID string) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("store: delete goal: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE goal_id = ? AND user_id = ?`, id, userID); err != nil {
			return fmt.Errorf("store: delete goal tasks: %w", err)
		}
		return nil
	})
}

// ListTasks returns the tasks of goalID owned by userID, newest first.
func (db *DB) ListTasks(ctx context.Context, goalID, userID string) ([]models.Task, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, goal_id, user_id, title, description, completed, created_at, updated_at
		FROM tasks WHERE goal_id = ? AND user_id = ?
		ORDER BY created_at DESC
	`, goalID, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// CreateTask inserts t.
func (db *DB) CreateTask(ctx context.Context, t models.Task) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO tasks (id, goal_id, user_id, title, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.GoalID, t.UserID, t.Title, t.Description, t.Completed,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: create task: %w", err)
	}
	return nil
}

// UpdateTask loads task id of userID, applies fn and writes it back in one transaction.
func (db *DB) UpdateTask(ctx context.Context, id, userID string, fn func(*models.Task)) (*models.Task, error) {
	var out *models.Task
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, goal_id, user_id, title, description, completed, created_at, updated_at
			FROM tasks WHERE id = ? AND user_id = ?
		`, id, userID)
		t, err := scanTask(row)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("store: get task: %w", err)
		}
		fn(t)
		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ?
			WHERE id = ? AND user_id = ?
		`, t.Title, t.Description, t.Completed, formatTime(t.UpdatedAt), id, userID)
		if err != nil {
			return fmt.Errorf("store: update task: %w", err)
		}
		out = t
		return nil
	})
	return out, err
}

// DeleteTask removes task id of userID.
func (db *DB) DeleteTask(ctx context.Context, id, userID string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanGoal(s scanner) (*models.Goal, error) {
	var (
		g                    models.Goal
		createdAt, updatedAt string
	)
	if err := s.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t                    models.Task
		createdAt, updatedAt string
	)
	if err := s.Scan(&t.ID, &t.GoalID, &t.UserID, &t.Title, &t.Description, &t.Completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
