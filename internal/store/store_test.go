package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "yeargoals-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"users", "calendar_days", "user_goals", "attendance", "attendance_breaks", "goals", "tasks", "blog_posts", "feed_posts", "feed_likes"} {
		var count int
		err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2025, 3, 14, 9, 30, 15, 123000000, time.FixedZone("X", 3600))
	out, err := parseTime(formatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())

	// Fixed width keeps lexical order equal to chronological order.
	assert.Less(t, formatTime(t0), formatTime(t0.Add(time.Millisecond)))
}

func TestCalendarDays(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.GetDay(ctx, "u1", "2025-03-14")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	d, err := db.UpsertDay(ctx, models.CalendarDay{UserID: "u1", Date: "2025-03-14", Completed: true, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	assert.True(t, d.Completed)
	assert.Nil(t, d.Note)

	later := t0.Add(time.Hour)
	d, err = db.UpsertDay(ctx, models.CalendarDay{UserID: "u1", Date: "2025-03-14", Completed: true, Note: strPtr("ran 5k"), CreatedAt: later, UpdatedAt: later})
	require.NoError(t, err)
	require.NotNil(t, d.Note)
	assert.Equal(t, "ran 5k", *d.Note)
	assert.True(t, t0.Equal(d.CreatedAt), "created_at must survive updates")
	assert.True(t, later.Equal(d.UpdatedAt))

	_, err = db.UpsertDay(ctx, models.CalendarDay{UserID: "u1", Date: "2025-03-12", Completed: true, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	_, err = db.UpsertDay(ctx, models.CalendarDay{UserID: "u1", Date: "2025-03-13", CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	_, err = db.UpsertDay(ctx, models.CalendarDay{UserID: "u2", Date: "2025-03-13", Completed: true, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)

	days, err := db.ListDays(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-03-12", days[0].Date)
	assert.Equal(t, "2025-03-14", days[2].Date)

	between, err := db.ListDaysBetween(ctx, "u1", "2025-03-13", "2025-03-14")
	require.NoError(t, err)
	assert.Len(t, between, 2)

	dates, err := db.CompletedDatesDesc(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-14", "2025-03-12"}, dates)

	require.NoError(t, db.DeleteDay(ctx, "u1", "2025-03-13"))
	assert.ErrorIs(t, db.DeleteDay(ctx, "u1", "2025-03-13"), apperr.ErrNotFound)
}

func TestUserGoal(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.GetUserGoal(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	g, err := db.UpsertUserGoal(ctx, models.UserGoal{UserID: "u1", Goal: "Read daily", CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	assert.Equal(t, "Read daily", g.Goal)

	g, err = db.UpsertUserGoal(ctx, models.UserGoal{UserID: "u1", Goal: "Write daily", CreatedAt: t0.Add(time.Hour), UpdatedAt: t0.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "Write daily", g.Goal)
	assert.True(t, t0.Equal(g.CreatedAt))
}

func TestMutateAttendance(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec, err := db.MutateAttendance(ctx, "u1", "2025-03-14", t0, func(r *models.AttendanceRecord) error {
		in := t0
		r.CheckInTime = &in
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWorking, rec.Status())

	start := t0.Add(time.Hour)
	_, err = db.MutateAttendance(ctx, "u1", "2025-03-14", start, func(r *models.AttendanceRecord) error {
		r.Breaks = append(r.Breaks, models.Break{StartTime: start})
		return nil
	})
	require.NoError(t, err)

	end := start.Add(15 * time.Minute)
	second := end.Add(time.Hour)
	_, err = db.MutateAttendance(ctx, "u1", "2025-03-14", second, func(r *models.AttendanceRecord) error {
		r.Breaks[0].EndTime = &end
		r.Breaks = append(r.Breaks, models.Break{StartTime: second})
		return nil
	})
	require.NoError(t, err)

	got, err := db.GetAttendance(ctx, "u1", "2025-03-14")
	require.NoError(t, err)
	require.Len(t, got.Breaks, 2)
	assert.True(t, end.Equal(*got.Breaks[0].EndTime))
	assert.True(t, got.Breaks[1].Open())
	assert.Equal(t, models.StatusOnBreak, got.Status())
	assert.True(t, t0.Equal(got.CreatedAt))
	assert.True(t, second.Equal(got.UpdatedAt))
}

func TestMutateAttendance_ErrorWritesNothing(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.MutateAttendance(ctx, "u1", "2025-03-14", t0, func(r *models.AttendanceRecord) error {
		in := t0
		r.CheckInTime = &in
		return apperr.Transition("nope")
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = db.GetAttendance(ctx, "u1", "2025-03-14")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMutateAttendance_BreaksAppendOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.MutateAttendance(ctx, "u1", "2025-03-14", t0, func(r *models.AttendanceRecord) error {
		in := t0
		r.CheckInTime = &in
		r.Breaks = append(r.Breaks, models.Break{StartTime: t0.Add(time.Minute)})
		return nil
	})
	require.NoError(t, err)

	_, err = db.MutateAttendance(ctx, "u1", "2025-03-14", t0, func(r *models.AttendanceRecord) error {
		r.Breaks = r.Breaks[:0]
		return nil
	})
	assert.ErrorIs(t, err, apperr.ErrInconsistentState)
}

func TestOneOpenBreakIndex(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.EnsureAttendance(ctx, "u1", "2025-03-14", t0)
	require.NoError(t, err)
	_, err = db.conn.Exec(`INSERT INTO attendance_breaks (user_id, date, seq, start_time) VALUES ('u1', '2025-03-14', 0, ?)`, formatTime(t0))
	require.NoError(t, err)
	_, err = db.conn.Exec(`INSERT INTO attendance_breaks (user_id, date, seq, start_time) VALUES ('u1', '2025-03-14', 1, ?)`, formatTime(t0))
	assert.True(t, isUniqueViolation(err), "second open break must be rejected, got %v", err)
}

func TestEnsureAndListAttendance(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec, err := db.EnsureAttendance(ctx, "u1", "2025-03-14", t0)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, rec.Status())
	assert.Empty(t, rec.Breaks)

	again, err := db.EnsureAttendance(ctx, "u1", "2025-03-14", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, t0.Equal(again.CreatedAt))

	_, err = db.EnsureAttendance(ctx, "u1", "2025-03-10", t0)
	require.NoError(t, err)
	_, err = db.EnsureAttendance(ctx, "u1", "2025-04-01", t0)
	require.NoError(t, err)

	list, err := db.ListAttendance(ctx, "u1", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-10", list[0].Date)
	assert.Equal(t, "2025-03-14", list[1].Date)
}

func TestUsers(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	u, err := db.CreateUser(ctx, models.User{ID: "u1", Email: "ana@example.com", PasswordHash: "h", CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)

	_, err = db.CreateUser(ctx, models.User{ID: "u2", Email: "ana@example.com", PasswordHash: "h", CreatedAt: t0, UpdatedAt: t0})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	byEmail, err := db.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
	assert.Equal(t, "h", byEmail.PasswordHash)

	u.Phone = "+1 555 0100"
	u.WhatsAppNotifications = true
	updated, err := db.UpdateUser(ctx, *u)
	require.NoError(t, err)
	assert.Equal(t, "+1 555 0100", updated.Phone)
	assert.True(t, updated.WhatsAppNotifications)

	_, err = db.UpdateUser(ctx, models.User{ID: "missing", Email: "x@example.com"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = db.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGoalsAndTasks(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateGoal(ctx, models.Goal{ID: "g1", UserID: "u1", Title: "Marathon", CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, db.CreateGoal(ctx, models.Goal{ID: "g2", UserID: "u1", Title: "Spanish", CreatedAt: t0.Add(time.Hour), UpdatedAt: t0}))

	goals, err := db.ListGoals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "g2", goals[0].ID)

	_, err = db.GetGoal(ctx, "g1", "u2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, db.CreateTask(ctx, models.Task{ID: "t1", GoalID: "g1", UserID: "u1", Title: "Run 10k", CreatedAt: t0, UpdatedAt: t0}))
	task, err := db.UpdateTask(ctx, "t1", "u1", func(tk *models.Task) {
		tk.Completed = true
		tk.UpdatedAt = t0.Add(time.Hour)
	})
	require.NoError(t, err)
	assert.True(t, task.Completed)

	_, err = db.UpdateTask(ctx, "t1", "u2", func(*models.Task) {})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, db.DeleteGoal(ctx, "g1", "u1"))
	tasks, err := db.ListTasks(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.ErrorIs(t, db.DeleteTask(ctx, "t1", "u1"), apperr.ErrNotFound)
}

func TestFeedAndLikes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.CreateUser(ctx, models.User{ID: "u1", Email: "ana@example.com", FirstName: "Ana", PasswordHash: "h", CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)

	progress := 40
	require.NoError(t, db.CreateFeedPost(ctx, models.FeedPost{
		ID: "p1", UserID: "u1", Type: models.FeedTypeProgress, Title: "Halfway", Description: "d",
		Tags: []string{"running"}, Progress: &progress, CreatedAt: t0, UpdatedAt: t0,
	}))
	require.NoError(t, db.CreateFeedPost(ctx, models.FeedPost{
		ID: "p2", UserID: "u1", Type: models.FeedTypeGoal, Title: "New goal", Description: "d",
		CreatedAt: t0.Add(time.Minute), UpdatedAt: t0,
	}))

	liked, likes, err := db.ToggleLike(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)

	feed, err := db.ListFeed(ctx, "u2", 50)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "p2", feed[0].ID)
	assert.Empty(t, feed[0].Tags)
	assert.Nil(t, feed[0].Progress)
	assert.False(t, feed[0].IsLiked)

	assert.True(t, feed[1].IsLiked)
	assert.Equal(t, []string{"running"}, feed[1].Tags)
	require.NotNil(t, feed[1].Progress)
	assert.Equal(t, 40, *feed[1].Progress)
	assert.Equal(t, "Ana", feed[1].User.Name)
	assert.Equal(t, "@ana", feed[1].User.Username)

	liked, likes, err = db.ToggleLike(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, likes)

	_, _, err = db.ToggleLike(ctx, "missing", "u2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	limited, err := db.ListFeed(ctx, "u2", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestBlogPosts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBlogPost(ctx, models.BlogPost{ID: "b1", UserID: "u1", Title: "Week 1", Content: "c", IsPublic: true, CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, db.CreateBlogPost(ctx, models.BlogPost{ID: "b2", UserID: "u1", Title: "Week 2", Content: "c", Tags: []string{"a"}, CreatedAt: t0.Add(time.Hour), UpdatedAt: t0}))
	require.NoError(t, db.CreateBlogPost(ctx, models.BlogPost{ID: "b3", UserID: "u2", Title: "Other", Content: "c", CreatedAt: t0, UpdatedAt: t0}))

	posts, err := db.ListBlogPosts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "b2", posts[0].ID)
	assert.Equal(t, []string{"a"}, posts[0].Tags)
	assert.False(t, posts[0].IsPublic)
	assert.True(t, posts[1].IsPublic)
}
