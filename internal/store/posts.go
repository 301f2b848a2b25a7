package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Post statuses.
const (
	PostStatusDraft   = "draft"
	PostStatusPublish = "publish"
)

// PostFilter selects which posts ListPosts returns.
type PostFilter int

const (
	// PostFilterAll returns every post, newest id first.
	PostFilterAll PostFilter = iota
	// PostFilterPublished returns published posts, oldest id first.
	PostFilterPublished
	// PostFilterDraft returns draft posts, oldest id first.
	PostFilterDraft
)

// Post is a blog article row.
type Post struct {
	ID      int64
	Title   string
	Slug    string
	Body    string
	Status  string
	Likes   int64
	Publish sql.NullTime
	Created time.Time
	Updated time.Time
	UserID  int64
}

const postColumns = `id, title, slug, body, status, likes, publish, created, updated, user_id`

func scanPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.Likes,
			&p.Publish, &p.Created, &p.Updated, &p.UserID); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPosts returns posts matching the given filter.
func (q *Queries) ListPosts(ctx context.Context, filter PostFilter) ([]Post, error) {
	var query string
	var args []any
	switch filter {
	case PostFilterPublished:
		query = `SELECT ` + postColumns + ` FROM posts WHERE status = ? ORDER BY id ASC`
		args = []any{PostStatusPublish}
	case PostFilterDraft:
		query = `SELECT ` + postColumns + ` FROM posts WHERE status = ? ORDER BY id ASC`
		args = []any{PostStatusDraft}
	default:
		query = `SELECT ` + postColumns + ` FROM posts ORDER BY id DESC`
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return scanPosts(rows)
}

// GetPostByTitle looks up the single post with the given title.
func (q *Queries) GetPostByTitle(ctx context.Context, title string) (Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE title = ?`, title)
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.Likes,
		&p.Publish, &p.Created, &p.Updated, &p.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("querying post %q: %w", title, err)
	}
	return p, nil
}

// ListPostsByAuthor returns every post owned by the named user.
func (q *Queries) ListPostsByAuthor(ctx context.Context, username string) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT p.id, p.title, p.slug, p.body, p.status,
		p.likes, p.publish, p.created, p.updated, p.user_id
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE u.username = ? ORDER BY p.id ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("listing posts by %q: %w", username, err)
	}
	return scanPosts(rows)
}

// ListPostsByYear returns published posts created within the given year.
func (q *Queries) ListPostsByYear(ctx context.Context, year int) ([]Post, error) {
	begin := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := begin.AddDate(1, 0, 0)
	rows, err := q.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts
		WHERE status = ? AND created >= ? AND created < ? ORDER BY id ASC`,
		PostStatusPublish, begin, end)
	if err != nil {
		return nil, fmt.Errorf("listing posts for %d: %w", year, err)
	}
	return scanPosts(rows)
}

// ListPostsByIDs returns the posts whose id is in the given set. Used to join
// today's comments back to their post titles.
func (q *Queries) ListPostsByIDs(ctx context.Context, ids []int64) ([]Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts
		WHERE id IN (`+placeholders+`) ORDER BY id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing posts by ids: %w", err)
	}
	return scanPosts(rows)
}

// CreatePostParams holds the fields for a new post.
type CreatePostParams struct {
	Title  string
	Slug   string
	Body   string
	Status string
	UserID int64
}

// CreatePost inserts a new post with publish/created/updated stamped to now.
// The UNIQUE index on title makes the insert atomic; a duplicate title returns
// ErrConflict.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `INSERT INTO posts
		(title, slug, body, status, likes, publish, created, updated, user_id)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Body, arg.Status, now, now, now, arg.UserID)
	if isUniqueViolation(err) {
		return Post{}, ErrConflict
	}
	if err != nil {
		return Post{}, fmt.Errorf("inserting post %q: %w", arg.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, fmt.Errorf("reading new post id: %w", err)
	}
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	var p Post
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.Likes,
		&p.Publish, &p.Created, &p.Updated, &p.UserID); err != nil {
		return Post{}, fmt.Errorf("reading back post %d: %w", id, err)
	}
	return p, nil
}

// UpdatePostParams holds the replacement fields for an existing post.
type UpdatePostParams struct {
	OldTitle string
	Title    string
	Slug     string
	Body     string
	Status   string
}

// UpdatePostByTitle rewrites the post currently titled OldTitle. Returns
// ErrNotFound when no such post exists and ErrConflict when the new title is
// already taken by another post.
func (q *Queries) UpdatePostByTitle(ctx context.Context, arg UpdatePostParams) error {
	res, err := q.db.ExecContext(ctx, `UPDATE posts
		SET title = ?, slug = ?, body = ?, status = ?, updated = ?
		WHERE title = ?`,
		arg.Title, arg.Slug, arg.Body, arg.Status, time.Now(), arg.OldTitle)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("updating post %q: %w", arg.OldTitle, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of post %q: %w", arg.OldTitle, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePostLikes overwrites the likes counter with the supplied absolute
// count. Last write wins; there are no increment semantics.
func (q *Queries) UpdatePostLikes(ctx context.Context, likes, postID int64) error {
	if _, err := q.db.ExecContext(ctx, `UPDATE posts SET likes = ? WHERE id = ?`,
		likes, postID); err != nil {
		return fmt.Errorf("updating likes for post %d: %w", postID, err)
	}
	return nil
}
