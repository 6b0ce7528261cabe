package games

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/association"
	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/respond"
)

// ListDates returns the dates recorded for a game
// @Summary List a game's dates
// @Tags games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {array} models.GameDateRelation
// @Failure 404 {object} respond.ErrorResponse "Game not found"
// @Security BearerAuth
// @Router /games/{id}/dates [get]
func (h *Handler) ListDates(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	gameID, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	dates, err := h.links.ListDates(c.Request.Context(), userID, gameID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dates)
}

// AttachDate records a date against a game
// @Summary Attach a date
// @Description Returns 201 when the date is new and 200 when it was already recorded
// @Tags games
// @Accept json
// @Produce json
// @Param id path int true "Game ID"
// @Param request body AttachDateRequest true "Date as YYYY-MM-DD"
// @Success 200 {object} models.GameDateRelation
// @Success 201 {object} models.GameDateRelation
// @Failure 400 {object} respond.ErrorResponse "Invalid date"
// @Failure 404 {object} respond.ErrorResponse "Game not found"
// @Security BearerAuth
// @Router /games/{id}/dates [post]
func (h *Handler) AttachDate(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	gameID, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	var req AttachDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	rel, created, err := h.links.AttachDate(c.Request.Context(), userID, gameID, req.Date)
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

// SyncDates adds and removes several dates at once
// @Summary Sync dates
// @Description Attaches every date in add, then detaches every date in remove. Stops at the first error without undoing earlier changes.
// @Tags games
// @Accept json
// @Produce json
// @Param id path int true "Game ID"
// @Param request body association.SyncDatesInput true "Dates to add and remove"
// @Success 200 {array} models.GameDateRelation
// @Security BearerAuth
// @Router /games/{id}/dates [put]
func (h *Handler) SyncDates(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	gameID, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	var req association.SyncDatesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if err := h.links.SyncDates(ctx, userID, gameID, req); err != nil {
		respond.Error(c, err)
		return
	}
	dates, err := h.links.ListDates(ctx, userID, gameID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dates)
}

// DetachDate removes a date from a game
// @Summary Detach a date
// @Tags games
// @Param id path int true "Game ID"
// @Param date path string true "Date as YYYY-MM-DD"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse "Game or date not found"
// @Security BearerAuth
// @Router /games/{id}/dates/{date} [delete]
func (h *Handler) DetachDate(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	gameID, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.links.DetachDate(c.Request.Context(), userID, gameID, c.Param("date")); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
