package games

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/association"
	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/catalog"
	"github.com/gargrave/gameon-server/pkg/gameon/respond"
)

// Handler handles game-related requests
type Handler struct {
	catalog *catalog.Service
	links   *association.Service
}

// NewHandler creates a new games handler
func NewHandler(cat *catalog.Service, links *association.Service) *Handler {
	return &Handler{catalog: cat, links: links}
}

// AttachDateRequest represents the request to record a date against a game
type AttachDateRequest struct {
	Date string `json:"date"`
}

// List returns the user's games
// @Summary List games
// @Description List games. Archived games are hidden unless include_archived is set; a search matches titles case-insensitively and includes archived games.
// @Tags games
// @Produce json
// @Param search query string false "Title substring"
// @Param include_archived query bool false "Include archived games"
// @Success 200 {array} models.Game
// @Security BearerAuth
// @Router /games [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	query := catalog.GameQuery{Search: c.Query("search")}
	if v := c.Query("include_archived"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			respond.BadRequest(c, "include_archived must be a boolean")
			return
		}
		query.IncludeArchived = include
	}

	games, err := h.catalog.ListGames(c.Request.Context(), userID, query)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// Create creates a new game
// @Summary Create a game
// @Description Create a game, optionally with a platform and initial dates
// @Tags games
// @Accept json
// @Produce json
// @Param request body catalog.CreateGameInput true "Game details"
// @Success 201 {object} models.Game
// @Failure 400 {object} respond.ErrorResponse "Validation error or unknown platform"
// @Security BearerAuth
// @Router /games [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req catalog.CreateGameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	game, err := h.catalog.CreateGame(c.Request.Context(), userID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// Get returns a single game
// @Summary Get a game
// @Tags games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} models.Game
// @Failure 404 {object} respond.ErrorResponse "Game not found"
// @Security BearerAuth
// @Router /games/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	game, err := h.catalog.GetGame(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Update applies a partial update to a game
// @Summary Update a game
// @Description Omitted fields are left unchanged; platform_id 0 clears the platform
// @Tags games
// @Accept json
// @Produce json
// @Param id path int true "Game ID"
// @Param request body catalog.UpdateGameInput true "Fields to change"
// @Success 200 {object} models.Game
// @Failure 404 {object} respond.ErrorResponse "Game not found"
// @Security BearerAuth
// @Router /games/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateGameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	game, err := h.catalog.UpdateGame(c.Request.Context(), userID, id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Delete deletes a game with its tag links and dates
// @Summary Delete a game
// @Tags games
// @Param id path int true "Game ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse "Game not found"
// @Security BearerAuth
// @Router /games/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteGame(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers game routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/games", h.List)
	rg.POST("/games", h.Create)
	rg.GET("/games/:id", h.Get)
	rg.PUT("/games/:id", h.Update)
	rg.DELETE("/games/:id", h.Delete)

	// Dates played
	rg.GET("/games/:id/dates", h.ListDates)
	rg.POST("/games/:id/dates", h.AttachDate)
	rg.PUT("/games/:id/dates", h.SyncDates)
	rg.DELETE("/games/:id/dates/:date", h.DetachDate)
}
