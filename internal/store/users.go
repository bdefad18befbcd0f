package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

const userColumns = `id, email, phone, password_hash, first_name, last_name, profile_image_url,
	whatsapp_notifications, created_at, updated_at`

// CreateUser inserts u. A duplicate email yields apperr.ErrAlreadyExists.
func (db *DB) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Phone, u.PasswordHash, u.FirstName, u.LastName, u.ProfileImageURL,
		u.WhatsAppNotifications, formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if isUniqueViolation(err) {
		return nil, apperr.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}
	return db.GetUser(ctx, u.ID)
}

// GetUser returns the user with id or apperr.ErrNotFound.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	return db.getUserBy(ctx, "id", id)
}

// GetUserByEmail returns the user with email or apperr.ErrNotFound.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUserBy(ctx, "email", email)
}

// UpdateUser writes the mutable profile fields of u.
func (db *DB) UpdateUser(ctx context.Context, u models.User) (*models.User, error) {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE users SET
			email = ?, phone = ?, first_name = ?, last_name = ?, profile_image_url = ?,
			whatsapp_notifications = ?, updated_at = ?
		WHERE id = ?
	`, u.Email, u.Phone, u.FirstName, u.LastName, u.ProfileImageURL,
		u.WhatsAppNotifications, formatTime(u.UpdatedAt), u.ID)
	if isUniqueViolation(err) {
		return nil, apperr.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("store: update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.GetUser(ctx, u.ID)
}

func (db *DB) getUserBy(ctx context.Context, column, value string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	var (
		u                    models.User
		createdAt, updatedAt string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.ProfileImageURL, &u.WhatsAppNotifications, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
