package models

import "time"

// Feed post kinds.
const (
	FeedTypeGoal        = "goal"
	FeedTypeAchievement = "achievement"
	FeedTypeBlog        = "blog"
	FeedTypeProgress    = "progress"
)

// BlogPost is a long-form entry written by a user.
type BlogPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsPublic  bool      `json:"isPublic"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Views     int       `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FeedPost is a short social update.
type FeedPost struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Progress    *int      `json:"progress,omitempty"`
	GoalTitle   string    `json:"goalTitle,omitempty"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FeedAuthor is the public projection of a post's author.
type FeedAuthor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// FeedItem is a feed post enriched for the requesting user.
type FeedItem struct {
	FeedPost
	User    FeedAuthor `json:"user"`
	IsLiked bool       `json:"isLiked"`
}
