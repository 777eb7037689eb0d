package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/apperror"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/repository"
	"github.com/threadnest-api/internal/validation"
)

// postService is the concrete implementation of PostService
type postService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	validator *validation.Validator
	log       zerolog.Logger
}

func newPostService(repos *repository.Repositories, validator *validation.Validator, log zerolog.Logger) *postService {
	return &postService{
		posts:     repos.Post,
		comments:  repos.Comment,
		validator: validator,
		log:       log.With().Str("service", "post").Logger(),
	}
}

func parsePostID(id string) (string, error) {
	postID, ok := validation.ParseID(id)
	if !ok {
		return "", apperror.InvalidID("Invalid post ID")
	}
	return postID, nil
}

// List returns one page of the feed, newest first. page is 1-based.
func (s *postService) List(ctx context.Context, callerID string, page int) ([]models.PostView, error) {
	if page < 1 {
		return nil, apperror.Validation("Invalid load parameter")
	}

	posts, err := s.posts.List(ctx, (page-1)*models.PostsPageSize, models.PostsPageSize)
	if err != nil {
		return nil, storeFailure(s.log, "list posts", err)
	}
	if len(posts) == 0 {
		return nil, apperror.NotFound("No posts found")
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.View(callerID))
	}
	return views, nil
}

// Get returns a single post annotated for the caller
func (s *postService) Get(ctx context.Context, id, callerID string) (*models.PostView, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, storeFailure(s.log, "get post", err)
	}
	if post == nil {
		return nil, apperror.NotFound("Post not found")
	}

	view := post.View(callerID)
	return &view, nil
}

// Create validates and persists a new post with empty collections
func (s *postService) Create(ctx context.Context, authorID string, req *models.PostRequest) (*models.PostView, error) {
	if req.Title == "" || req.Content == "" {
		return nil, apperror.Validation("Title and content are required")
	}
	if verr := s.validator.ValidateTitle(req.Title); verr != nil {
		return nil, apperror.Validation(verr.Describe("Post validation failed"))
	}
	if verr := s.validator.ValidatePostContent(req.Content); verr != nil {
		return nil, apperror.Validation(verr.Describe("Post validation failed"))
	}

	post := &models.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeFailure(s.log, "create post", err)
	}

	s.log.Debug().Str("post_id", post.ID).Str("author_id", authorID).Msg("Post created")

	view := post.View(authorID)
	return &view, nil
}

// ToggleUpvote flips the caller's membership in the post's upvote set
func (s *postService) ToggleUpvote(ctx context.Context, id, callerID string) (*models.PostView, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.ToggleUpvote(ctx, postID, callerID)
	if err != nil {
		return nil, storeFailure(s.log, "toggle post upvote", err)
	}
	if post == nil {
		return nil, apperror.NotFound("Post not found")
	}

	view := post.View(callerID)
	return &view, nil
}

// Edit updates the provided fields of a post written by the caller
func (s *postService) Edit(ctx context.Context, id, callerID string, req *models.PostRequest) (*models.PostView, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	if req.Title == "" && req.Content == "" {
		return nil, apperror.Validation("Title or content is required for patch")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, storeFailure(s.log, "get post", err)
	}
	if post == nil {
		return nil, apperror.NotFound("Post not found")
	}
	if post.AuthorID != callerID {
		return nil, apperror.Forbidden("You are not authorized to edit this post")
	}

	if req.Title != "" {
		if verr := s.validator.ValidateTitle(req.Title); verr != nil {
			return nil, apperror.Validation(verr.Describe("Validation failed"))
		}
	}
	if req.Content != "" {
		if verr := s.validator.ValidatePostContent(req.Content); verr != nil {
			return nil, apperror.Validation(verr.Describe("Validation failed"))
		}
	}

	updated, err := s.posts.UpdateFields(ctx, postID, req.Title, req.Content)
	if err != nil {
		return nil, storeFailure(s.log, "update post", err)
	}
	if updated == nil {
		return nil, apperror.NotFound("Post not found")
	}

	view := updated.View(callerID)
	return &view, nil
}

// Delete removes a post written by the caller together with its comments
func (s *postService) Delete(ctx context.Context, id, callerID string) (*models.DeletePostResult, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.DeleteOwned(ctx, postID, callerID)
	if err != nil {
		return nil, storeFailure(s.log, "delete post", err)
	}
	if post == nil {
		return nil, apperror.NotFound("Post not found")
	}

	deleted, err := s.comments.DeleteByPost(ctx, postID)
	if err != nil {
		return nil, storeFailure(s.log, "delete post comments", err)
	}

	s.log.Info().
		Str("post_id", postID).
		Int("comments_deleted", deleted).
		Msg("Post deleted")

	return &models.DeletePostResult{
		Message: fmt.Sprintf("Post %s with id %s and it's related comments have been deleted succesfully",
			post.Title, post.ID),
		Post:            models.PostSummary{ID: post.ID, AuthorID: post.AuthorID, Title: post.Title},
		CommentsDeleted: deleted,
	}, nil
}

// AddComment registers a comment reference on the post
func (s *postService) AddComment(ctx context.Context, postID, commentID string) error {
	ok, err := s.posts.AddComment(ctx, postID, commentID)
	if err != nil {
		return storeFailure(s.log, "add comment reference", err)
	}
	if !ok {
		return apperror.NotFound("Post not found")
	}
	return nil
}

// RemoveComment drops a comment reference from the post
func (s *postService) RemoveComment(ctx context.Context, postID, commentID string) error {
	ok, err := s.posts.RemoveComment(ctx, postID, commentID)
	if err != nil {
		return storeFailure(s.log, "remove comment reference", err)
	}
	if !ok {
		return apperror.NotFound("Post not found")
	}
	return nil
}
