package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/threadnest-api/internal/database"
	"github.com/threadnest-api/internal/models"
)

const postColumns = `id, author_id, title, content, upvotes, comment_ids, created_at, updated_at`

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Content,
		pq.Array(&post.Upvotes), pq.Array(&post.Comments),
		&post.CreatedAt, &post.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post with empty upvote and comment collections
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Upvotes, post.Comments = []string{}, []string{}

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt,
	)
	return translate(err)
}

// GetByID retrieves a post by ID
func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

// List returns a page of posts, newest first
func (r *postRepo) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// ListIDsByAuthor returns the IDs of every post written by authorID
func (r *postRepo) ListIDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM posts WHERE author_id = $1 ORDER BY created_at`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateFields sets title and content. An empty value leaves the field unchanged.
func (r *postRepo) UpdateFields(ctx context.Context, id, title, content string) (*models.Post, error) {
	query := `
		UPDATE posts SET
			title = COALESCE(NULLIF($2, ''), title),
			content = COALESCE(NULLIF($3, ''), content),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	return scanPost(r.db.QueryRowContext(ctx, query, id, title, content))
}

// ToggleUpvote adds userID to the upvote set, or removes it when present
func (r *postRepo) ToggleUpvote(ctx context.Context, id, userID string) (*models.Post, error) {
	query := `
		UPDATE posts SET
			upvotes = CASE
				WHEN $2::uuid = ANY(upvotes) THEN array_remove(upvotes, $2::uuid)
				ELSE array_append(upvotes, $2::uuid)
			END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	return scanPost(r.db.QueryRowContext(ctx, query, id, userID))
}

// AddComment appends a comment reference. It reports false when the post is gone.
func (r *postRepo) AddComment(ctx context.Context, postID, commentID string) (bool, error) {
	query := `
		UPDATE posts SET
			comment_ids = CASE
				WHEN $2::uuid = ANY(comment_ids) THEN comment_ids
				ELSE array_append(comment_ids, $2::uuid)
			END,
			updated_at = NOW()
		WHERE id = $1
	`
	return r.execAffected(ctx, query, postID, commentID)
}

// RemoveComment drops a comment reference. It reports false when the post is gone.
func (r *postRepo) RemoveComment(ctx context.Context, postID, commentID string) (bool, error) {
	query := `
		UPDATE posts SET
			comment_ids = array_remove(comment_ids, $2::uuid),
			updated_at = NOW()
		WHERE id = $1
	`
	return r.execAffected(ctx, query, postID, commentID)
}

func (r *postRepo) execAffected(ctx context.Context, query string, args ...interface{}) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteOwned removes the post only when authorID wrote it, returning the deleted post
func (r *postRepo) DeleteOwned(ctx context.Context, id, authorID string) (*models.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 AND author_id = $2 RETURNING ` + postColumns
	return scanPost(r.db.QueryRowContext(ctx, query, id, authorID))
}

// DeleteByAuthor removes every post written by authorID
func (r *postRepo) DeleteByAuthor(ctx context.Context, authorID string) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// Count returns the total number of posts
func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}
