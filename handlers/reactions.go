package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"urbandict/models"
	"urbandict/services/reactions"
	"urbandict/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// React toggles the caller's reaction on a post. Anonymous callers are
// redirected to login (the feed script follows the redirect); post existence
// is checked before the reaction type.
func (h *Handler) React(c echo.Context) error {
	if !session.IsAuthenticated(c) {
		target := "/posts/login?next=" + url.QueryEscape(c.Request().RequestURI)
		return c.Redirect(http.StatusFound, target)
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
	}

	var req ReactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	result, err := h.reactions.Toggle(session.GetUserID(c), uint(postID), models.ReactionKind(req.Type))
	switch {
	case errors.Is(err, reactions.ErrPostNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
	case errors.Is(err, reactions.ErrInvalidKind):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid reaction type"})
	case err != nil:
		h.logger.Error("reaction toggle failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, result)
}
