package importexport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/association"
	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/catalog"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/respond"
)

// Handler handles import/export requests
type Handler struct {
	catalog *catalog.Service
	links   *association.Service
}

// NewHandler creates a new import/export handler
func NewHandler(cat *catalog.Service, links *association.Service) *Handler {
	return &Handler{catalog: cat, links: links}
}

// GameRecord is a self-contained game with its platform and tags by title.
type GameRecord struct {
	Title    string   `json:"title"`
	Platform string   `json:"platform,omitempty"`
	Finished bool     `json:"finished"`
	Archived bool     `json:"archived"`
	Tags     []string `json:"tags"`
	Dates    []string `json:"dates"`
}

// ImportRequest represents an import request
type ImportRequest struct {
	Games []GameRecord `json:"games" binding:"required"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func toRecord(game models.Game) GameRecord {
	rec := GameRecord{
		Title:    game.Title,
		Finished: game.Finished,
		Archived: game.Archived,
		Tags:     make([]string, 0, len(game.Tags)),
		Dates:    make([]string, 0, len(game.Dates)),
	}
	if game.Platform != nil {
		rec.Platform = game.Platform.Title
	}
	for _, rel := range game.Tags {
		rec.Tags = append(rec.Tags, rel.Tag.Title)
	}
	for _, d := range game.Dates {
		rec.Dates = append(rec.Dates, d.Date)
	}
	return rec
}

// Export writes every game the user owns, archived ones included
// @Summary Export the catalog
// @Tags import-export
// @Produce json
// @Param download query bool false "Send as attachment"
// @Success 200 {array} GameRecord
// @Security BearerAuth
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	games, err := h.catalog.ListGames(c.Request.Context(), userID, catalog.GameQuery{IncludeArchived: true})
	if err != nil {
		respond.Error(c, err)
		return
	}

	records := make([]GameRecord, len(games))
	for i, game := range games {
		records[i] = toRecord(game)
	}

	// Set content disposition for download
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=gameon-export.json")
	}
	c.JSON(http.StatusOK, records)
}

// Import creates games from exported records. Platforms are matched by title
// and created when missing; tags are linked by title.
// @Summary Import games
// @Tags import-export
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Games to import"
// @Success 200 {object} ImportResult
// @Failure 400 {object} respond.ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	platforms, err := h.platformIndex(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	result := ImportResult{}
	for i, rec := range req.Games {
		prefix := "game " + strconv.Itoa(i) + ": "

		platformID, err := h.platformID(ctx, userID, platforms, rec.Platform)
		if err != nil {
			result.Errors = append(result.Errors, prefix+err.Error())
			result.Skipped++
			continue
		}

		game, err := h.catalog.CreateGame(ctx, userID, catalog.CreateGameInput{
			Title:      rec.Title,
			PlatformID: platformID,
			Finished:   rec.Finished,
			Archived:   rec.Archived,
			Dates:      rec.Dates,
		})
		if err != nil {
			result.Errors = append(result.Errors, prefix+err.Error())
			result.Skipped++
			continue
		}
		result.Imported++

		// A bad tag does not undo the game
		for _, title := range rec.Tags {
			if strings.TrimSpace(title) == "" {
				continue
			}
			if _, _, err := h.links.LinkTag(ctx, userID, association.LinkTagInput{TagTitle: title, GameID: game.ID}); err != nil {
				result.Errors = append(result.Errors, prefix+"tag "+strconv.Quote(title)+": "+err.Error())
			}
		}
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) platformIndex(ctx context.Context, owner uint) (map[string]uint, error) {
	platforms, err := h.catalog.ListPlatforms(ctx, owner)
	if err != nil {
		return nil, err
	}
	index := make(map[string]uint, len(platforms))
	for _, p := range platforms {
		// first one wins on duplicate titles
		if _, ok := index[p.Title]; !ok {
			index[p.Title] = p.ID
		}
	}
	return index, nil
}

func (h *Handler) platformID(ctx context.Context, owner uint, index map[string]uint, title string) (*uint, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	if id, ok := index[title]; ok {
		return &id, nil
	}
	platform, err := h.catalog.CreatePlatform(ctx, owner, catalog.PlatformInput{Title: title})
	if err != nil {
		return nil, err
	}
	index[platform.Title] = platform.ID
	return &platform.ID, nil
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
	rg.GET("/export", h.Export)
}
