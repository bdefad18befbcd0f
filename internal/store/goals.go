package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

// GetUserGoal returns the current goal of userID or apperr.ErrNotFound.
func (db *DB) GetUserGoal(ctx context.Context, userID string) (*models.UserGoal, error) {
	var (
		g                    models.UserGoal
		createdAt, updatedAt string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, goal, created_at, updated_at FROM user_goals WHERE user_id = ?`, userID,
	).Scan(&g.UserID, &g.Goal, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user goal: %w", err)
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertUserGoal overwrites the goal of g.UserID.
func (db *DB) UpsertUserGoal(ctx context.Context, g models.UserGoal) (*models.UserGoal, error) {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_goals (user_id, goal, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			goal       = excluded.goal,
			updated_at = excluded.updated_at
	`, g.UserID, g.Goal, formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("store: upsert user goal: %w", err)
	}
	return db.GetUserGoal(ctx, g.UserID)
}
