// Package middleware holds the gin middleware of the API server.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/internal/auth"
	"github.com/kutbudev/foodgram/pkg/models"
)

const (
	userKey    = "foodgram.user"
	tokenIDKey = "foodgram.token_id"
)

// TokenStore confirms a parsed token has not been revoked.
type TokenStore interface {
	Active(ctx context.Context, id string, userID uint, now time.Time) (bool, error)
}

// UserLoader loads the account a token belongs to.
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticate resolves the Authorization header into the current user.
// Requests without the header continue anonymously; a header that does not
// resolve to a live token is rejected with 401.
func Authenticate(issuer *auth.TokenIssuer, tokens TokenStore, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, ok := tokenFromHeader(header)
		if !ok {
			abortInvalidToken(c)
			return
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			abortInvalidToken(c)
			return
		}

		ctx := c.Request.Context()
		active, err := tokens.Active(ctx, claims.TokenID, claims.UserID, time.Now())
		if err != nil || !active {
			abortInvalidToken(c)
			return
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			abortInvalidToken(c)
			return
		}

		c.Set(userKey, user)
		c.Set(tokenIDKey, claims.TokenID)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// ViewerID is the current user's id, or 0 for anonymous requests.
func ViewerID(c *gin.Context) uint {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}

// TokenID returns the id of the token that authenticated the request.
func TokenID(c *gin.Context) string {
	return c.GetString(tokenIDKey)
}

func tokenFromHeader(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
	default:
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortInvalidToken(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
}
