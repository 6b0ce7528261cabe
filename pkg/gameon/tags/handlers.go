package tags

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/association"
	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/catalog"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/respond"
)

// Handler handles tag-related requests
type Handler struct {
	catalog *catalog.Service
	links   *association.Service
}

// NewHandler creates a new tags handler
func NewHandler(cat *catalog.Service, links *association.Service) *Handler {
	return &Handler{catalog: cat, links: links}
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	GameCount int64     `json:"game_count"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

func tagToResponse(tag models.Tag, games int64) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Title:     tag.Title,
		GameCount: games,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

// List returns all of the user's tags with the number of games using each
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} TagResponse
// @Security BearerAuth
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tags, err := h.catalog.ListTags(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	usage, err := h.catalog.TagUsage(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	responses := make([]TagResponse, len(tags))
	for i, t := range tags {
		responses[i] = tagToResponse(t, usage[t.ID])
	}
	c.JSON(http.StatusOK, responses)
}

// Create creates a tag
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body catalog.TagInput true "Tag details"
// @Success 201 {object} TagResponse
// @Failure 409 {object} respond.ErrorResponse "Title already used"
// @Security BearerAuth
// @Router /tags [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req catalog.TagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	tag, err := h.catalog.CreateTag(c.Request.Context(), userID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, tagToResponse(*tag, 0))
}

// Get returns a single tag
// @Summary Get a tag
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} TagResponse
// @Failure 404 {object} respond.ErrorResponse "Tag not found"
// @Security BearerAuth
// @Router /tags/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tag, err := h.catalog.GetTag(ctx, userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	usage, err := h.catalog.TagUsage(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tagToResponse(*tag, usage[tag.ID]))
}

// Delete deletes a tag and removes it from every game
// @Summary Delete a tag
// @Tags tags
// @Param id path int true "Tag ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse "Tag not found"
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteTag(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LinkGame adds a tag to a game, creating the tag by title if needed
// @Summary Tag a game
// @Description Either tag_id or tag_title must be given. Returns 201 for a new link and 200 when the link already existed.
// @Tags tags
// @Accept json
// @Produce json
// @Param request body association.LinkTagInput true "Tag and game"
// @Success 200 {object} models.TagGameRelation
// @Success 201 {object} models.TagGameRelation
// @Failure 400 {object} respond.ErrorResponse "Unknown tag or missing game_id"
// @Failure 404 {object} respond.ErrorResponse "Game not found"
// @Security BearerAuth
// @Router /tags/games [post]
func (h *Handler) LinkGame(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req association.LinkTagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	rel, created, err := h.links.LinkTag(c.Request.Context(), userID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, rel)
}

// UnlinkGame removes a tag from a game. Removing a link that does not exist succeeds.
// @Summary Untag a game
// @Tags tags
// @Accept json
// @Param request body association.UnlinkTagInput true "Tag and game"
// @Success 204
// @Security BearerAuth
// @Router /tags/games [delete]
func (h *Handler) UnlinkGame(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req association.UnlinkTagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	if err := h.links.UnlinkTag(c.Request.Context(), userID, req); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.POST("/tags", h.Create)
	rg.GET("/tags/:id", h.Get)
	rg.DELETE("/tags/:id", h.Delete)

	// Tag <-> game links
	rg.POST("/tags/games", h.LinkGame)
	rg.DELETE("/tags/games", h.UnlinkGame)
}
