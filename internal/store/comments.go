package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Comment is a visitor comment row attached to a post.
type Comment struct {
	ID            int64
	Username      string
	Email         string
	Comment       string
	CommittedTime time.Time
	PostID        int64
}

const commentColumns = `id, username, email, comment, committed_time, post_id`

func scanComments(rows *sql.Rows) ([]Comment, error) {
	defer rows.Close()
	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Username, &c.Email, &c.Comment,
			&c.CommittedTime, &c.PostID); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListComments returns every comment, newest first.
func (q *Queries) ListComments(ctx context.Context) ([]Comment, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return scanComments(rows)
}

// ListCommentsByPost returns the comments attached to one post.
func (q *Queries) ListCommentsByPost(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments
		WHERE post_id = ? ORDER BY id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments for post %d: %w", postID, err)
	}
	return scanComments(rows)
}

// ListTodayComments returns comments committed since local midnight.
func (q *Queries) ListTodayComments(ctx context.Context) ([]Comment, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	rows, err := q.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments
		WHERE committed_time >= ? AND committed_time < ? ORDER BY id ASC`, midnight, now)
	if err != nil {
		return nil, fmt.Errorf("listing today's comments: %w", err)
	}
	return scanComments(rows)
}

// CreateCommentParams holds the fields for a new comment.
type CreateCommentParams struct {
	Username string
	Email    string
	Comment  string
	PostID   int64
}

// CreateComment inserts a comment stamped with the current time.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) error {
	if _, err := q.db.ExecContext(ctx, `INSERT INTO comments
		(username, email, comment, committed_time, post_id) VALUES (?, ?, ?, ?, ?)`,
		arg.Username, arg.Email, arg.Comment, time.Now(), arg.PostID); err != nil {
		return fmt.Errorf("inserting comment on post %d: %w", arg.PostID, err)
	}
	return nil
}
