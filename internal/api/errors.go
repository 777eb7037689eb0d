package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadnest-api/internal/apperror"
)

// respondError writes err as {"error": message} with its mapped status
func respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	c.JSON(appErr.Status(), gin.H{"error": appErr.Message})
}

// respondAuthError answers signup and login failures, which are all 500
func respondAuthError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.From(err).Message})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// bindJSON decodes an optional JSON body. An empty or malformed body leaves
// the target zeroed so the field checks report what is missing.
func bindJSON(c *gin.Context, target interface{}) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return
	}
	_ = c.ShouldBindJSON(target)
}
