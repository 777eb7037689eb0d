package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/service"
)

// PostHandler handles /api/posts endpoints
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// ListPosts handles GET /api/posts?load=N
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("load", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid load parameter"})
		return
	}

	posts, err := h.services.Post.List(c.Request.Context(), callerID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost handles GET /api/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.services.Post.Get(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /api/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.PostRequest
	bindJSON(c, &req)

	post, err := h.services.Post.Create(c.Request.Context(), callerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PATCH /api/posts/:id?action=update|upvote
func (h *PostHandler) UpdatePost(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		post *models.PostView
		err  error
	)
	switch c.Query("action") {
	case "update":
		var req models.PostRequest
		bindJSON(c, &req)
		post, err = h.services.Post.Edit(ctx, c.Param("id"), callerID(c), &req)
	case "upvote":
		post, err = h.services.Post.ToggleUpvote(ctx, c.Param("id"), callerID(c))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	result, err := h.services.Post.Delete(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
