package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/threadnest-api/internal/database"
	"github.com/threadnest-api/internal/models"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint
var ErrDuplicate = errors.New("duplicate key")

// Lookups return (nil, nil) when no document matches.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateUsername(ctx context.Context, id, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data operations.
// ToggleUpvote, AddComment and RemoveComment are single-document atomic.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, offset, limit int) ([]*models.Post, error)
	ListIDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	UpdateFields(ctx context.Context, id, title, content string) (*models.Post, error)
	ToggleUpvote(ctx context.Context, id, userID string) (*models.Post, error)
	AddComment(ctx context.Context, postID, commentID string) (bool, error)
	RemoveComment(ctx context.Context, postID, commentID string) (bool, error)
	DeleteOwned(ctx context.Context, id, authorID string) (*models.Post, error)
	DeleteByAuthor(ctx context.Context, authorID string) (int, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Comment, error)
	ToggleUpvote(ctx context.Context, id, userID string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByPost(ctx context.Context, postID string) (int, error)
	DeleteByAuthor(ctx context.Context, authorID string) (int, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Post    PostRepository
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Post:    NewPostRepo(db),
		Comment: NewCommentRepo(db),
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// translate maps driver errors onto repository errors
func translate(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
