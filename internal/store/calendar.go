package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

const calendarColumns = `user_id, date, completed, note, day_goal, created_at, updated_at`

// GetDay returns the record for (userID, date) or apperr.ErrNotFound.
func (db *DB) GetDay(ctx context.Context, userID, date string) (*models.CalendarDay, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+calendarColumns+` FROM calendar_days WHERE user_id = ? AND date = ?`, userID, date)
	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get day: %w", err)
	}
	return d, nil
}

// UpsertDay inserts or updates the record keyed by (UserID, Date).
// CreatedAt is kept from the first insert.
func (db *DB) UpsertDay(ctx context.Context, d models.CalendarDay) (*models.CalendarDay, error) {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO calendar_days (user_id, date, completed, note, day_goal, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			completed  = excluded.completed,
			note       = excluded.note,
			day_goal   = excluded.day_goal,
			updated_at = excluded.updated_at
	`, d.UserID, d.Date, d.Completed, nullString(d.Note), nullString(d.DayGoal),
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("store: upsert day: %w", err)
	}
	return db.GetDay(ctx, d.UserID, d.Date)
}

// DeleteDay removes the record for (userID, date). Missing records yield apperr.ErrNotFound.
func (db *DB) DeleteDay(ctx context.Context, userID, date string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM calendar_days WHERE user_id = ? AND date = ?`, userID, date)
	if err != nil {
		return fmt.Errorf("store: delete day: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListDays returns every record of userID ordered by date.
func (db *DB) ListDays(ctx context.Context, userID string) ([]models.CalendarDay, error) {
	return db.queryDays(ctx,
		`SELECT `+calendarColumns+` FROM calendar_days WHERE user_id = ? ORDER BY date`, userID)
}

// ListDaysBetween returns the records of userID with from <= date <= to.
func (db *DB) ListDaysBetween(ctx context.Context, userID, from, to string) ([]models.CalendarDay, error) {
	return db.queryDays(ctx, `
		SELECT `+calendarColumns+` FROM calendar_days
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date
	`, userID, from, to)
}

// CompletedDatesDesc returns the dates of completed records, newest first.
func (db *DB) CompletedDatesDesc(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT date FROM calendar_days WHERE user_id = ? AND completed = 1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: completed dates: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (db *DB) queryDays(ctx context.Context, query string, args ...any) ([]models.CalendarDay, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list days: %w", err)
	}
	defer rows.Close()

	out := []models.CalendarDay{}
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDay(s scanner) (*models.CalendarDay, error) {
	var (
		d                    models.CalendarDay
		note, dayGoal        sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&d.UserID, &d.Date, &d.Completed, &note, &dayGoal, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.Note = stringPtr(note)
	d.DayGoal = stringPtr(dayGoal)
	var err error
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
