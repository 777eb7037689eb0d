package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/apperror"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/repository"
	"github.com/threadnest-api/internal/validation"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments  repository.CommentRepository
	posts     PostService
	validator *validation.Validator
	log       zerolog.Logger
}

func newCommentService(
	comments repository.CommentRepository,
	posts PostService,
	validator *validation.Validator,
	log zerolog.Logger,
) *commentService {
	return &commentService{
		comments:  comments,
		posts:     posts,
		validator: validator,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

func parseCommentID(id string) (string, error) {
	commentID, ok := validation.ParseID(id)
	if !ok {
		return "", apperror.InvalidID("Invalid comment ID")
	}
	return commentID, nil
}

// ListForPost returns the comments of a post, oldest first.
// A post without comments answers NotFound.
func (s *commentService) ListForPost(ctx context.Context, postID, callerID string) ([]models.CommentView, error) {
	post, err := s.posts.Get(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, storeFailure(s.log, "list comments", err)
	}
	if len(comments) == 0 {
		return nil, apperror.NotFound("No comments found")
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View(callerID))
	}
	return views, nil
}

// Create persists a comment and registers it on its post. The comment is
// removed again when the post disappears in between.
func (s *commentService) Create(ctx context.Context, postID, authorID string, req *models.CommentRequest) (*models.CommentView, error) {
	if _, err := parsePostID(postID); err != nil {
		return nil, err
	}
	if req.Content == "" {
		return nil, apperror.Validation("Content is required")
	}
	if verr := s.validator.ValidateCommentContent(req.Content); verr != nil {
		return nil, apperror.Validation(verr.Describe("Comment validation failed"))
	}

	post, err := s.posts.Get(ctx, postID, authorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:       uuid.NewString(),
		PostID:   post.ID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeFailure(s.log, "create comment", err)
	}

	if err := s.posts.AddComment(ctx, post.ID, comment.ID); err != nil {
		if _, delErr := s.comments.Delete(ctx, comment.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("comment_id", comment.ID).Msg("Failed to remove unreferenced comment")
		}
		return nil, err
	}

	s.log.Debug().Str("comment_id", comment.ID).Str("post_id", post.ID).Msg("Comment created")

	view := comment.View(authorID)
	return &view, nil
}

// ToggleUpvote flips the caller's membership in the comment's upvote set
func (s *commentService) ToggleUpvote(ctx context.Context, id, callerID string) (*models.CommentView, error) {
	commentID, err := parseCommentID(id)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.ToggleUpvote(ctx, commentID, callerID)
	if err != nil {
		return nil, storeFailure(s.log, "toggle comment upvote", err)
	}
	if comment == nil {
		return nil, apperror.NotFound("Comment not found")
	}

	view := comment.View(callerID)
	return &view, nil
}

// Edit replaces the content of a comment written by the caller
func (s *commentService) Edit(ctx context.Context, id, callerID string, req *models.CommentRequest) (*models.CommentView, error) {
	commentID, err := parseCommentID(id)
	if err != nil {
		return nil, err
	}
	if req.Content == "" {
		return nil, apperror.Validation("Content is required for patch")
	}
	if verr := s.validator.ValidateCommentContent(req.Content); verr != nil {
		return nil, apperror.Validation(verr.Describe("Validation failed"))
	}

	comment, err := s.ownedComment(ctx, commentID, callerID)
	if err != nil {
		return nil, err
	}

	updated, err := s.comments.UpdateContent(ctx, comment.ID, req.Content)
	if err != nil {
		return nil, storeFailure(s.log, "update comment", err)
	}
	if updated == nil {
		return nil, apperror.NotFound("Comment not found")
	}

	view := updated.View(callerID)
	return &view, nil
}

// Delete removes a comment written by the caller and its post reference
func (s *commentService) Delete(ctx context.Context, id, callerID string) error {
	commentID, err := parseCommentID(id)
	if err != nil {
		return err
	}

	comment, err := s.ownedComment(ctx, commentID, callerID)
	if err != nil {
		return err
	}

	if err := s.posts.RemoveComment(ctx, comment.PostID, comment.ID); err != nil {
		return err
	}

	deleted, err := s.comments.Delete(ctx, comment.ID)
	if err != nil {
		return storeFailure(s.log, "delete comment", err)
	}
	if !deleted {
		return apperror.NotFound("Comment not found")
	}

	s.log.Debug().Str("comment_id", comment.ID).Str("post_id", comment.PostID).Msg("Comment deleted")
	return nil
}

func (s *commentService) ownedComment(ctx context.Context, commentID, callerID string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, storeFailure(s.log, "get comment", err)
	}
	if comment == nil {
		return nil, apperror.NotFound("Comment not found")
	}
	if comment.AuthorID != callerID {
		return nil, apperror.Unauthorized("User id and author_id are not equal")
	}
	return comment, nil
}
