package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/auth"
	"github.com/threadnest-api/internal/rate"
)

// authMiddleware resolves the bearer token to a stored user and attaches
// the identity to the request context. It never writes to the store.
func authMiddleware(tokens *auth.TokenService, creds *auth.Credentials, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("middleware", "auth").Logger()

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization token required")
			return
		}

		token := ""
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
			token = strings.TrimSpace(parts[1])
		}

		userID, err := tokens.Verify(token)
		if errors.Is(err, auth.ErrTokenExpired) {
			abortWithError(c, http.StatusUnauthorized, "TokenExpiredError: jwt expired")
			return
		}
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Request is not authorized")
			return
		}

		ctx := c.Request.Context()
		user, err := creds.Resolve(ctx, userID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve token user")
			abortWithError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user == nil {
			abortWithError(c, http.StatusUnauthorized, "User not found")
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(ctx, auth.Identity{UserID: user.ID}))
		c.Next()
	}
}

// rateLimitMiddleware caps requests per client IP. Limiter failures let the
// request through.
func rateLimitMiddleware(limiter rate.Limiter, limit int, window time.Duration, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("middleware", "rate_limit").Logger()

	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := c.FullPath() + ":" + c.ClientIP()
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			abortWithError(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		c.Next()
	}
}

// callerID returns the identity attached by authMiddleware
func callerID(c *gin.Context) string {
	identity, _ := auth.IdentityFrom(c.Request.Context())
	return identity.UserID
}
