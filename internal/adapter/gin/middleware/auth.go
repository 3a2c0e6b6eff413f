package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "library-management-service/internal/domain/user"
	"library-management-service/pkg/logger"
)

// actingUserKey is the gin context key holding the resolved identity.
const actingUserKey = "actingUser"

// Authenticator resolves a bearer token to the acting identity.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*domain.User, error)
}

// Auth returns a middleware that guards ownership-sensitive routes. It
// extracts the bearer credential from the Authorization header, resolves the
// acting identity, and aborts with 401 when that fails.
func Auth(authenticator Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		u, err := authenticator.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			log.Debug("request not authorized", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Request is not authorized"})
			return
		}

		SetActingUser(c, u)

		// Make the acting user visible to downstream log entries
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, u.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SetActingUser stores the resolved identity on the gin context.
func SetActingUser(c *gin.Context, u *domain.User) {
	c.Set(actingUserKey, u)
}

// ActingUser returns the identity resolved by the Auth middleware, or nil
// when the route is unauthenticated.
func ActingUser(c *gin.Context) *domain.User {
	v, ok := c.Get(actingUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
