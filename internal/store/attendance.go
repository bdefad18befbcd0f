package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

// GetAttendance returns the record for (userID, date) or apperr.ErrNotFound.
func (db *DB) GetAttendance(ctx context.Context, userID, date string) (*models.AttendanceRecord, error) {
	rec, err := loadAttendance(ctx, db.conn, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get attendance: %w", err)
	}
	return rec, nil
}

// EnsureAttendance returns the record for (userID, date), creating an empty
// one stamped with now if none exists yet.
func (db *DB) EnsureAttendance(ctx context.Context, userID, date string, now time.Time) (*models.AttendanceRecord, error) {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO attendance (user_id, date, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO NOTHING
	`, userID, date, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("store: ensure attendance: %w", err)
	}
	return db.GetAttendance(ctx, userID, date)
}

// MutateAttendance loads (or starts) the record for (userID, date), applies fn
// and persists the result, all inside one transaction. When fn returns an error
// nothing is written.
func (db *DB) MutateAttendance(ctx context.Context, userID, date string, now time.Time, fn func(*models.AttendanceRecord) error) (*models.AttendanceRecord, error) {
	var out *models.AttendanceRecord
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		rec, err := loadAttendance(ctx, tx, userID, date)
		if errors.Is(err, sql.ErrNoRows) {
			rec = &models.AttendanceRecord{UserID: userID, Date: date, Breaks: []models.Break{}, CreatedAt: now}
		} else if err != nil {
			return fmt.Errorf("store: load attendance: %w", err)
		}

		persisted := len(rec.Breaks)
		if err := fn(rec); err != nil {
			return err
		}
		if len(rec.Breaks) < persisted {
			return fmt.Errorf("%w: breaks are append-only", apperr.ErrInconsistentState)
		}
		rec.UpdatedAt = now

		if err := saveAttendance(ctx, tx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAttendance returns the records of userID with from <= date <= to, oldest first.
func (db *DB) ListAttendance(ctx context.Context, userID, from, to string) ([]models.AttendanceRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT date FROM attendance
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("store: list attendance: %w", err)
	}
	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return nil, err
		}
		dates = append(dates, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.AttendanceRecord, 0, len(dates))
	for _, d := range dates {
		rec, err := loadAttendance(ctx, db.conn, userID, d)
		if err != nil {
			return nil, fmt.Errorf("store: list attendance: %w", err)
		}
		out = append(out, *rec)
	}
	return out, nil
}

func loadAttendance(ctx context.Context, q queryer, userID, date string) (*models.AttendanceRecord, error) {
	var (
		rec                  = models.AttendanceRecord{UserID: userID, Date: date, Breaks: []models.Break{}}
		checkIn, checkOut    sql.NullString
		createdAt, updatedAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT check_in_time, check_out_time, created_at, updated_at
		FROM attendance WHERE user_id = ? AND date = ?
	`, userID, date).Scan(&checkIn, &checkOut, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if rec.CheckInTime, err = parseTimePtr(checkIn); err != nil {
		return nil, err
	}
	if rec.CheckOutTime, err = parseTimePtr(checkOut); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT start_time, end_time FROM attendance_breaks
		WHERE user_id = ? AND date = ?
		ORDER BY seq
	`, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		var b models.Break
		if b.StartTime, err = parseTime(start); err != nil {
			return nil, err
		}
		if b.EndTime, err = parseTimePtr(end); err != nil {
			return nil, err
		}
		rec.Breaks = append(rec.Breaks, b)
	}
	return &rec, rows.Err()
}

func saveAttendance(ctx context.Context, tx *sql.Tx, rec *models.AttendanceRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO attendance (user_id, date, check_in_time, check_out_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			check_in_time  = excluded.check_in_time,
			check_out_time = excluded.check_out_time,
			updated_at     = excluded.updated_at
	`, rec.UserID, rec.Date, formatTimePtr(rec.CheckInTime), formatTimePtr(rec.CheckOutTime),
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: save attendance: %w", err)
	}

	// Close breaks before inserting new ones so the one-open-break index
	// never sees two open rows mid-statement.
	for seq, b := range rec.Breaks {
		if b.Open() {
			continue
		}
		if err := upsertBreak(ctx, tx, rec, seq, b); err != nil {
			return err
		}
	}
	for seq, b := range rec.Breaks {
		if !b.Open() {
			continue
		}
		if err := upsertBreak(ctx, tx, rec, seq, b); err != nil {
			return err
		}
	}
	return nil
}

func upsertBreak(ctx context.Context, tx *sql.Tx, rec *models.AttendanceRecord, seq int, b models.Break) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_breaks (user_id, date, seq, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date, seq) DO UPDATE SET end_time = excluded.end_time
	`, rec.UserID, rec.Date, seq, formatTime(b.StartTime), formatTimePtr(b.EndTime))
	if err != nil {
		return fmt.Errorf("store: save break: %w", err)
	}
	return nil
}
