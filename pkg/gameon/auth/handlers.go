package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/respond"
)

// UserReader loads a local user.
type UserReader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// Handler handles authentication requests
type Handler struct {
	users UserReader
}

// NewHandler creates a new auth handler
func NewHandler(users UserReader) *Handler {
	return &Handler{users: users}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID      uint   `json:"id"`
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Get the profile of the user the bearer token belongs to
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} respond.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:      user.ID,
		Subject: user.Subject,
		Email:   user.Email,
		Name:    user.Name,
	})
}

// RegisterRoutes registers auth routes on the given router group.
// The group must already run AuthMiddleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}
