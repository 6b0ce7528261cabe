package platforms

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/catalog"
	"github.com/gargrave/gameon-server/pkg/gameon/respond"
)

// Handler handles platform-related requests
type Handler struct {
	catalog *catalog.Service
}

// NewHandler creates a new platforms handler
func NewHandler(cat *catalog.Service) *Handler {
	return &Handler{catalog: cat}
}

// List returns the user's platforms
// @Summary List platforms
// @Tags platforms
// @Produce json
// @Success 200 {array} models.Platform
// @Security BearerAuth
// @Router /platforms [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	platforms, err := h.catalog.ListPlatforms(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, platforms)
}

// Create creates a platform
// @Summary Create a platform
// @Tags platforms
// @Accept json
// @Produce json
// @Param request body catalog.PlatformInput true "Platform details"
// @Success 201 {object} models.Platform
// @Failure 400 {object} respond.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /platforms [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req catalog.PlatformInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	platform, err := h.catalog.CreatePlatform(c.Request.Context(), userID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, platform)
}

// Get returns a single platform
// @Summary Get a platform
// @Tags platforms
// @Produce json
// @Param id path int true "Platform ID"
// @Success 200 {object} models.Platform
// @Failure 404 {object} respond.ErrorResponse "Platform not found"
// @Security BearerAuth
// @Router /platforms/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	platform, err := h.catalog.GetPlatform(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, platform)
}

// Update renames a platform
// @Summary Update a platform
// @Tags platforms
// @Accept json
// @Produce json
// @Param id path int true "Platform ID"
// @Param request body catalog.PlatformInput true "Platform details"
// @Success 200 {object} models.Platform
// @Failure 404 {object} respond.ErrorResponse "Platform not found"
// @Security BearerAuth
// @Router /platforms/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	var req catalog.PlatformInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	platform, err := h.catalog.UpdatePlatform(c.Request.Context(), userID, id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, platform)
}

// Delete deletes a platform; its games are kept without a platform
// @Summary Delete a platform
// @Tags platforms
// @Param id path int true "Platform ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse "Platform not found"
// @Security BearerAuth
// @Router /platforms/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeletePlatform(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers platform routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/platforms", h.List)
	rg.POST("/platforms", h.Create)
	rg.GET("/platforms/:id", h.Get)
	rg.PUT("/platforms/:id", h.Update)
	rg.DELETE("/platforms/:id", h.Delete)
}
