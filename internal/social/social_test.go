package social_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
	"github.com/starford/yeargoals/internal/social"
	"github.com/starford/yeargoals/internal/testutil"
)

func TestBlog(t *testing.T) {
	db := testutil.TestDB(t)
	svc := social.NewService(db, testutil.FixedClock(t, "2026-03-14T12:00:00Z"))
	ctx := context.Background()

	private := false
	p, err := svc.CreateBlogPost(ctx, "u1", social.BlogInput{Title: "Week 1", Content: "Ran 20k", Tags: []string{" run ", ""}, IsPublic: &private})
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, p.Tags)
	assert.False(t, p.IsPublic)

	p, err = svc.CreateBlogPost(ctx, "u1", social.BlogInput{Title: "Week 2", Content: "Rest"})
	require.NoError(t, err)
	assert.True(t, p.IsPublic)

	_, err = svc.CreateBlogPost(ctx, "u1", social.BlogInput{Title: "No body"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "content", ve.Field)

	posts, err := svc.ListBlogPosts(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestFeed(t *testing.T) {
	db := testutil.TestDB(t)
	svc := social.NewService(db, testutil.FixedClock(t, "2026-03-14T12:00:00Z"))
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1", "ana@example.com")

	progress := 50
	post, err := svc.CreateFeedPost(ctx, "u1", social.FeedInput{
		Type: models.FeedTypeProgress, Title: "Halfway", Description: "50 of 100 days", Progress: &progress,
	})
	require.NoError(t, err)

	tooMuch := 150
	_, err = svc.CreateFeedPost(ctx, "u1", social.FeedInput{Type: models.FeedTypeProgress, Title: "x", Description: "y", Progress: &tooMuch})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "progress", ve.Field)

	_, err = svc.CreateFeedPost(ctx, "u1", social.FeedInput{Type: "rant", Title: "x", Description: "y"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)

	res, err := svc.ToggleLike(ctx, "u2", post.ID)
	require.NoError(t, err)
	assert.Equal(t, social.LikeResult{Liked: true, Likes: 1}, res)

	feed, err := svc.Feed(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].IsLiked)
	assert.Equal(t, "ana@example.com", feed[0].User.Name)

	res, err = svc.ToggleLike(ctx, "u2", post.ID)
	require.NoError(t, err)
	assert.Equal(t, social.LikeResult{Liked: false, Likes: 0}, res)

	_, err = svc.ToggleLike(ctx, "u2", "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
