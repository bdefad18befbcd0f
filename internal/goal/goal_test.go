package goal_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/goal"
	"github.com/starford/yeargoals/internal/testutil"
)

func TestGoalService(t *testing.T) {
	db := testutil.TestDB(t)
	svc := goal.NewService(db, testutil.FixedClock(t, "2026-03-14T12:00:00Z"))
	ctx := context.Background()

	g, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "", g.Goal)

	g, err = svc.Set(ctx, "u1", "  Run a marathon  ")
	require.NoError(t, err)
	assert.Equal(t, "Run a marathon", g.Goal)

	_, err = svc.Set(ctx, "u1", "Read 24 books")
	require.NoError(t, err)
	g, err = svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Read 24 books", g.Goal)

	_, err = svc.Set(ctx, "u1", "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Set(ctx, "u1", strings.Repeat("a", goal.MaxLength+1))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
