// Package testutil provides shared test helpers for databases, clocks and users.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
	"github.com/starford/yeargoals/internal/store"
)

// TestDB creates a temporary SQLite database that is closed on cleanup.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "yeargoals-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// FixedClock returns a UTC clock frozen at the given RFC3339 instant.
func FixedClock(t *testing.T, rfc3339 string) *clock.Fixed {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		t.Fatal(err)
	}
	return &clock.Fixed{T: ts, Loc: time.UTC}
}

// CreateUser inserts a user with the given id and email.
func CreateUser(t *testing.T, db *store.DB, id, email string) *models.User {
	t.Helper()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	u := models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := db.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	return created
}
