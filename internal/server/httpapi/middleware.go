package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CS-Kiran/Manana/internal/common"
	"github.com/CS-Kiran/Manana/internal/server/auth"
)

// userIDKey is the gin context key under which authRequired stores the
// authenticated user's id.
const userIDKey = "userID"

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
			return
		}

		token := strings.TrimPrefix(header, common.BearerPrefix)
		userID, err := auth.GetUserIDFromToken(token, []byte(s.cfg.SecretKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// renderError maps service errors onto HTTP statuses. Anything unexpected is
// logged and reported as a generic 500 so internals never leak to clients.
func (s *Server) renderError(c *gin.Context, err error) {
	var status int

	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrUserNotFound):
		status = http.StatusNotFound

	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrEmailExists),
		errors.Is(err, common.ErrInvalidEmailDomain),
		errors.Is(err, common.ErrNameRequired),
		errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, common.ErrTitleRequired),
		errors.Is(err, common.ErrInvalidStatus),
		errors.Is(err, common.ErrInvalidPriority):
		status = http.StatusBadRequest

	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrProviderMismatch),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized

	default:
		s.logger.Error(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) renderBindError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
