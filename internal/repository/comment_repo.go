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

const commentColumns = `id, post_id, author_id, content, upvotes, created_at, updated_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content,
		pq.Array(&comment.Upvotes), &comment.CreatedAt, &comment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) list(ctx context.Context, query string, arg string) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now().UTC()
	comment.CreatedAt, comment.UpdatedAt = now, now
	comment.Upvotes = []string{}

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content,
		comment.CreatedAt, comment.UpdatedAt,
	)
	return translate(err)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	return scanComment(r.db.QueryRowContext(ctx, query, id))
}

// ListByPost returns the comments of a post, oldest first
func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, postID)
}

// ListByAuthor returns every comment written by authorID
func (r *commentRepo) ListByAuthor(ctx context.Context, authorID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE author_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, authorID)
}

// UpdateContent replaces the comment body
func (r *commentRepo) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	query := `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns
	return scanComment(r.db.QueryRowContext(ctx, query, id, content))
}

// ToggleUpvote adds userID to the upvote set, or removes it when present
func (r *commentRepo) ToggleUpvote(ctx context.Context, id, userID string) (*models.Comment, error) {
	query := `
		UPDATE comments SET
			upvotes = CASE
				WHEN $2::uuid = ANY(upvotes) THEN array_remove(upvotes, $2::uuid)
				ELSE array_append(upvotes, $2::uuid)
			END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns
	return scanComment(r.db.QueryRowContext(ctx, query, id, userID))
}

// Delete removes a comment. It reports false when nothing matched.
func (r *commentRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.deleteWhere(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return n > 0, err
}

// DeleteByPost removes every comment attached to postID
func (r *commentRepo) DeleteByPost(ctx context.Context, postID string) (int, error) {
	return r.deleteWhere(ctx, `DELETE FROM comments WHERE post_id = $1`, postID)
}

// DeleteByAuthor removes every comment written by authorID
func (r *commentRepo) DeleteByAuthor(ctx context.Context, authorID string) (int, error) {
	return r.deleteWhere(ctx, `DELETE FROM comments WHERE author_id = $1`, authorID)
}

func (r *commentRepo) deleteWhere(ctx context.Context, query, arg string) (int, error) {
	result, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}
