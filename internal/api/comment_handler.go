package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/service"
)

// CommentHandler handles /api/comments endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListComments handles GET /api/comments/:postId
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.services.Comment.ListForPost(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /api/comments/:postId
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CommentRequest
	bindJSON(c, &req)

	comment, err := h.services.Comment.Create(c.Request.Context(), c.Param("id"), callerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment handles PATCH /api/comments/:id?action=update|upvote
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		comment *models.CommentView
		err     error
	)
	switch c.Query("action") {
	case "update":
		var req models.CommentRequest
		bindJSON(c, &req)
		comment, err = h.services.Comment.Edit(ctx, c.Param("id"), callerID(c), &req)
	case "upvote":
		comment, err = h.services.Comment.ToggleUpvote(ctx, c.Param("id"), callerID(c))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.services.Comment.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Comment deleted succesfully"})
}
