package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/service"
)

// UserHandler handles /api/users endpoints
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	bindJSON(c, &req)

	resp, err := h.services.User.Signup(c.Request.Context(), &req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	bindJSON(c, &req)

	resp, err := h.services.User.Login(c.Request.Context(), &req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.services.User.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.services.User.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PATCH /api/users/:id?action=username|password
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	bindJSON(c, &req)

	ctx := c.Request.Context()
	var (
		user *models.User
		err  error
	)
	switch c.DefaultQuery("action", "username") {
	case "username":
		user, err = h.services.User.UpdateUsername(ctx, callerID(c), c.Param("id"), req.Username)
	case "password":
		user, err = h.services.User.UpdatePassword(ctx, callerID(c), c.Param("id"), req.Password)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	result, err := h.services.User.Delete(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.Info().
		Str("user_id", result.User.ID).
		Int("posts_deleted", result.PostsDeleted).
		Int("comments_deleted", result.CommentsDeleted).
		Msg("Account removed")

	c.JSON(http.StatusOK, result)
}
