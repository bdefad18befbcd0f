package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/attendance"
	"github.com/starford/yeargoals/internal/models"
	"github.com/starford/yeargoals/internal/testutil"
)

func TestServiceDay(t *testing.T) {
	db := testutil.TestDB(t)
	clk := testutil.FixedClock(t, "2026-03-14T09:00:00Z")
	svc := attendance.NewService(db, clk)
	ctx := context.Background()

	s, err := svc.Today(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, s.Status)
	assert.Equal(t, "2026-03-14", s.Date)

	_, err = svc.ClockIn(ctx, "u1")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = svc.StartBreak(ctx, "u1")
	require.NoError(t, err)

	clk.Advance(30 * time.Minute)
	s, err = svc.EndBreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWorking, s.Status)
	assert.Equal(t, 30, s.BreakMinutes)

	clk.Advance(3 * time.Hour)
	s, err = svc.ClockOut(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, s.Status)
	assert.Equal(t, 300, s.WorkingMinutes)

	_, err = svc.ClockIn(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, "already clocked out for today", apperr.Message(err))

	// A new date starts a fresh record.
	clk.Set(time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC))
	s, err = svc.Today(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, s.Status)
}

func TestServiceClockOutFirstPersistsNothing(t *testing.T) {
	db := testutil.TestDB(t)
	clk := testutil.FixedClock(t, "2026-03-14T09:00:00Z")
	svc := attendance.NewService(db, clk)
	ctx := context.Background()

	_, err := svc.ClockOut(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)
	assert.Equal(t, "must clock in first", apperr.Message(err))

	_, err = db.GetAttendance(ctx, "u1", "2026-03-14")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestServiceUsesClockLocation(t *testing.T) {
	db := testutil.TestDB(t)
	loc := time.FixedZone("UTC-5", -5*3600)
	clk := testutil.FixedClock(t, "2026-03-15T02:00:00Z")
	clk.Loc = loc
	svc := attendance.NewService(db, clk)

	s, err := svc.Today(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", s.Date)
}

func TestServiceHistory(t *testing.T) {
	db := testutil.TestDB(t)
	clk := testutil.FixedClock(t, "2026-03-10T09:00:00Z")
	svc := attendance.NewService(db, clk)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.ClockIn(ctx, "u1")
		require.NoError(t, err)
		clk.Advance(8 * time.Hour)
		_, err = svc.ClockOut(ctx, "u1")
		require.NoError(t, err)
		clk.Advance(16 * time.Hour)
	}

	hist, err := svc.History(ctx, "u1", "", "")
	require.NoError(t, err)
	require.Len(t, hist, 3)
	for _, h := range hist {
		assert.Equal(t, 480, h.WorkingMinutes)
	}

	hist, err = svc.History(ctx, "u1", "2026-03-11", "2026-03-11")
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	_, err = svc.History(ctx, "u1", "bad", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
