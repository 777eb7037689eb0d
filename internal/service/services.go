package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/apperror"
	"github.com/threadnest-api/internal/auth"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/repository"
	"github.com/threadnest-api/internal/validation"
)

// Every error returned by a service is an *apperror.Error.

// UserService defines signup, login, profile mutation and self-delete
type UserService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateUsername(ctx context.Context, callerID, targetID, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, callerID, targetID, password string) (*models.User, error)
	Delete(ctx context.Context, callerID, targetID string) (*models.DeleteUserResult, error)
}

// PostService defines the post lifecycle. AddComment and RemoveComment are
// the only writers of a post's comment references.
type PostService interface {
	List(ctx context.Context, callerID string, page int) ([]models.PostView, error)
	Get(ctx context.Context, id, callerID string) (*models.PostView, error)
	Create(ctx context.Context, authorID string, req *models.PostRequest) (*models.PostView, error)
	ToggleUpvote(ctx context.Context, id, callerID string) (*models.PostView, error)
	Edit(ctx context.Context, id, callerID string, req *models.PostRequest) (*models.PostView, error)
	Delete(ctx context.Context, id, callerID string) (*models.DeletePostResult, error)
	AddComment(ctx context.Context, postID, commentID string) error
	RemoveComment(ctx context.Context, postID, commentID string) error
}

// CommentService defines the comment lifecycle
type CommentService interface {
	ListForPost(ctx context.Context, postID, callerID string) ([]models.CommentView, error)
	Create(ctx context.Context, postID, authorID string, req *models.CommentRequest) (*models.CommentView, error)
	ToggleUpvote(ctx context.Context, id, callerID string) (*models.CommentView, error)
	Edit(ctx context.Context, id, callerID string, req *models.CommentRequest) (*models.CommentView, error)
	Delete(ctx context.Context, id, callerID string) error
}

// StatsService reports collection sizes
type StatsService interface {
	Counts(ctx context.Context) (*models.StoreCounts, error)
}

// Services holds all service interfaces
type Services struct {
	User    UserService
	Post    PostService
	Comment CommentService
	Stats   StatsService
}

// NewServices creates all services
func NewServices(
	repos *repository.Repositories,
	tokens *auth.TokenService,
	creds *auth.Credentials,
	log zerolog.Logger,
) *Services {
	validator := validation.NewValidator()

	postSvc := newPostService(repos, validator, log)
	commentSvc := newCommentService(repos.Comment, postSvc, validator, log)
	userSvc := newUserService(repos, tokens, creds, validator, log)

	return &Services{
		User:    userSvc,
		Post:    postSvc,
		Comment: commentSvc,
		Stats:   newStatsService(repos),
	}
}

// storeFailure logs an unexpected store error and hides it behind a generic message
func storeFailure(log zerolog.Logger, op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("Store operation failed")
	return apperror.Internal("Internal server error", fmt.Errorf("%s: %w", op, err))
}

type statsService struct {
	repos *repository.Repositories
}

func newStatsService(repos *repository.Repositories) *statsService {
	return &statsService{repos: repos}
}

// Counts returns the number of users, posts and comments
func (s *statsService) Counts(ctx context.Context) (*models.StoreCounts, error) {
	var counts models.StoreCounts
	var err error

	if counts.Users, err = s.repos.User.Count(ctx); err != nil {
		return nil, apperror.Internal("Internal server error", fmt.Errorf("count users: %w", err))
	}
	if counts.Posts, err = s.repos.Post.Count(ctx); err != nil {
		return nil, apperror.Internal("Internal server error", fmt.Errorf("count posts: %w", err))
	}
	if counts.Comments, err = s.repos.Comment.Count(ctx); err != nil {
		return nil, apperror.Internal("Internal server error", fmt.Errorf("count comments: %w", err))
	}
	return &counts, nil
}
