// Package social manages blog posts and the shared activity feed.
package social

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

// FeedLimit is how many posts the feed returns.
const FeedLimit = 50

// Repository is the persistence the social service needs. *store.DB satisfies it.
type Repository interface {
	ListBlogPosts(ctx context.Context, userID string) ([]models.BlogPost, error)
	CreateBlogPost(ctx context.Context, p models.BlogPost) error
	ListFeed(ctx context.Context, viewerID string, limit int) ([]models.FeedItem, error)
	CreateFeedPost(ctx context.Context, p models.FeedPost) error
	ToggleLike(ctx context.Context, postID, userID string) (bool, int, error)
}

// BlogInput is the payload for a new blog post. IsPublic defaults to true.
type BlogInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	IsPublic *bool    `json:"isPublic"`
}

func (in BlogInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Tags, validation.Each(validation.Length(1, 50))),
	)
}

// FeedInput is the payload for a new feed post.
type FeedInput struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Progress    *int     `json:"progress"`
	GoalTitle   string   `json:"goalTitle"`
}

func (in FeedInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Type, validation.Required, validation.In(
			models.FeedTypeGoal, models.FeedTypeAchievement, models.FeedTypeBlog, models.FeedTypeProgress)),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Tags, validation.Each(validation.Length(1, 50))),
		validation.Field(&in.Progress, validation.Min(0), validation.Max(100)),
	)
}

// LikeResult is the state of a post after a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, c clock.Clock) *Service {
	return &Service{repo: repo, clock: c}
}

// ListBlogPosts returns the posts written by userID.
func (s *Service) ListBlogPosts(ctx context.Context, userID string) ([]models.BlogPost, error) {
	return s.repo.ListBlogPosts(ctx, userID)
}

func (s *Service) CreateBlogPost(ctx context.Context, userID string, in BlogInput) (*models.BlogPost, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Tags = cleanTags(in.Tags)
	if err := in.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}
	now := s.clock.Now()
	p := models.BlogPost{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags,
		IsPublic:  in.IsPublic == nil || *in.IsPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateBlogPost(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Feed returns the latest posts of all users as seen by viewerID.
func (s *Service) Feed(ctx context.Context, viewerID string) ([]models.FeedItem, error) {
	return s.repo.ListFeed(ctx, viewerID, FeedLimit)
}

func (s *Service) CreateFeedPost(ctx context.Context, userID string, in FeedInput) (*models.FeedPost, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Tags = cleanTags(in.Tags)
	if err := in.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}
	now := s.clock.Now()
	p := models.FeedPost{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		Progress:    in.Progress,
		GoalTitle:   strings.TrimSpace(in.GoalTitle),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateFeedPost(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ToggleLike likes or unlikes postID for userID.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (LikeResult, error) {
	liked, likes, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: liked, Likes: likes}, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
