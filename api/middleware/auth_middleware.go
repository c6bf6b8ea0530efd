// api/middleware/auth_middleware.go
package middleware

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/auth"
	"github.com/Annany2002/recipe-backend/internal/domain"
	"github.com/Annany2002/recipe-backend/internal/logger"
	"github.com/Annany2002/recipe-backend/internal/storage"
)

// Context keys set by AuthMiddleware
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

var customLog = logger.NewLogger()

// AuthMiddleware validates the bearer token, loads its user and confirms the
// token is still one of that user's active sessions. On success the user and
// raw token are placed on the gin context.
func AuthMiddleware(db *sql.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, auth.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, fmt.Errorf("%w: authorization header format must be Bearer {token}", auth.ErrTokenMalformed))
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		userID, err := auth.ValidateJWT(tokenString, cfg.JWTSecret)
		if err != nil {
			customLog.Printf("AuthMiddleware: Token validation failed: %v", err)
			abortUnauthorized(c, err)
			return
		}

		ctx := c.Request.Context()
		user, err := storage.FindUserByID(ctx, db, userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				abortUnauthorized(c, auth.ErrUnauthorized)
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		active, err := storage.HasToken(ctx, db, userID, tokenString)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !active {
			abortUnauthorized(c, auth.ErrTokenRevoked)
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}

// abortUnauthorized attaches err and stops the chain; ErrorHandler responds.
func abortUnauthorized(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// CurrentUser returns the user resolved by AuthMiddleware.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// CurrentToken returns the raw session token of the request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}
