package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/respond"
)

const (
	// ContextKeyUserID is the key for the local user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeySubject is the key for the identity provider subject in gin context
	ContextKeySubject = "subject"
)

// UserProvisioner maps a verified identity onto a local user row.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, subject, email, name string) (*models.User, error)
}

// AuthMiddleware verifies the bearer token, provisions the local user on
// first sight and sets the user ID in context.
func AuthMiddleware(verifier TokenVerifier, users UserProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respond.Abort(c, errors.Unauthorized("authorization header required"))
			return
		}

		// Expect "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			respond.Abort(c, errors.Unauthorized("invalid authorization header format"))
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			respond.Abort(c, err)
			return
		}

		user, err := users.EnsureUser(c.Request.Context(), identity.Subject, identity.Email, identity.Name)
		if err != nil {
			respond.Abort(c, err)
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeySubject, user.Subject)

		c.Next()
	}
}

// GetUserID returns the user ID from the gin context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok && id != 0
}

// MustUserID returns the user ID or writes a 401 and reports false.
func MustUserID(c *gin.Context) (uint, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		respond.Error(c, errors.Unauthorized("authentication required"))
	}
	return userID, ok
}
