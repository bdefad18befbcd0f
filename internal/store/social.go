package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

// ListBlogPosts returns the posts written by userID, newest first.
func (db *DB) ListBlogPosts(ctx context.Context, userID string) ([]models.BlogPost, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, title, content, tags, is_public, likes, comments, views, created_at, updated_at
		FROM blog_posts WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list blog posts: %w", err)
	}
	defer rows.Close()

	out := []models.BlogPost{}
	for rows.Next() {
		var (
			p                          models.BlogPost
			tags, createdAt, updatedAt string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &tags, &p.IsPublic,
			&p.Likes, &p.Comments, &p.Views, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := fillCommon(&p.Tags, tags, &p.CreatedAt, createdAt, &p.UpdatedAt, updatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateBlogPost inserts p.
func (db *DB) CreateBlogPost(ctx context.Context, p models.BlogPost) error {
	tagsJSON, _ := json.Marshal(nonNilTags(p.Tags))
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO blog_posts (id, user_id, title, content, tags, is_public, likes, comments, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Title, p.Content, string(tagsJSON), p.IsPublic, p.Likes, p.Comments, p.Views,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: create blog post: %w", err)
	}
	return nil
}

// CreateFeedPost inserts p.
func (db *DB) CreateFeedPost(ctx context.Context, p models.FeedPost) error {
	tagsJSON, _ := json.Marshal(nonNilTags(p.Tags))
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO feed_posts (id, user_id, type, title, description, tags, progress, goal_title,
			likes, comments, shares, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Type, p.Title, p.Description, string(tagsJSON), p.Progress, p.GoalTitle,
		p.Likes, p.Comments, p.Shares, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: create feed post: %w", err)
	}
	return nil
}

// ListFeed returns the newest limit posts of all users, with author details and
// whether viewerID liked each post.
func (db *DB) ListFeed(ctx context.Context, viewerID string, limit int) ([]models.FeedItem, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.type, p.title, p.description, p.tags, p.progress, p.goal_title,
		       p.likes, p.comments, p.shares, p.created_at, p.updated_at,
		       COALESCE(u.email, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
		       COALESCE(u.profile_image_url, ''),
		       EXISTS (SELECT 1 FROM feed_likes l WHERE l.post_id = p.id AND l.user_id = ?)
		FROM feed_posts p
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT ?
	`, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list feed: %w", err)
	}
	defer rows.Close()

	out := []models.FeedItem{}
	for rows.Next() {
		var (
			it                         models.FeedItem
			tags, createdAt, updatedAt string
			progress                   sql.NullInt64
			author                     models.User
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.Type, &it.Title, &it.Description, &tags, &progress,
			&it.GoalTitle, &it.Likes, &it.Comments, &it.Shares, &createdAt, &updatedAt,
			&author.Email, &author.FirstName, &author.LastName, &author.ProfileImageURL, &it.IsLiked); err != nil {
			return nil, err
		}
		if err := fillCommon(&it.Tags, tags, &it.CreatedAt, createdAt, &it.UpdatedAt, updatedAt); err != nil {
			return nil, err
		}
		if progress.Valid {
			v := int(progress.Int64)
			it.Progress = &v
		}
		it.User = models.FeedAuthor{
			ID:       it.UserID,
			Name:     author.DisplayName(),
			Username: "@" + strings.SplitN(author.Email, "@", 2)[0],
			Avatar:   author.ProfileImageURL,
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ToggleLike flips userID's like on postID and returns the new state and count.
func (db *DB) ToggleLike(ctx context.Context, postID, userID string) (liked bool, likes int, err error) {
	err = db.inTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT likes FROM feed_posts WHERE id = ?`, postID).Scan(&likes); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.ErrNotFound
			}
			return fmt.Errorf("store: get feed post: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM feed_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
		if err != nil {
			return fmt.Errorf("store: unlike: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			liked = false
			likes = max(0, likes-1)
		} else {
			if _, err := tx.ExecContext(ctx, `INSERT INTO feed_likes (post_id, user_id) VALUES (?, ?)`, postID, userID); err != nil {
				return fmt.Errorf("store: like: %w", err)
			}
			liked = true
			likes++
		}

		if _, err := tx.ExecContext(ctx, `UPDATE feed_posts SET likes = ? WHERE id = ?`, likes, postID); err != nil {
			return fmt.Errorf("store: update likes: %w", err)
		}
		return nil
	})
	return liked, likes, err
}

// fillCommon decodes the tags column and the two timestamp columns shared by
// blog and feed posts.
func fillCommon(tags *[]string, rawTags string, created *time.Time, rawCreated string, updated *time.Time, rawUpdated string) error {
	*tags = []string{}
	if rawTags != "" {
		if err := json.Unmarshal([]byte(rawTags), tags); err != nil {
			return fmt.Errorf("store: decode tags: %w", err)
		}
	}
	var err error
	if *created, err = parseTime(rawCreated); err != nil {
		return err
	}
	*updated, err = parseTime(rawUpdated)
	return err
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
