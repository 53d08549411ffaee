package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"urbandict/models"
	"urbandict/services/posts"
	"urbandict/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handler) Feed(c echo.Context) error {
	page, err := h.posts.Feed(pageParam(c))
	if err != nil {
		h.logger.Error("failed to load feed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return h.render(c, http.StatusOK, "feed.html", map[string]any{
		"Page": page,
	})
}

func (h *Handler) RandomPost(c echo.Context) error {
	post, err := h.posts.Random()
	if err != nil {
		if errors.Is(err, posts.ErrNoPosts) {
			return redirectHome(c)
		}
		h.logger.Error("failed to pick random post", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	page := &posts.Page{
		Posts:      []models.Post{*post},
		Number:     1,
		TotalPages: 1,
		TotalCount: 1,
	}
	return h.render(c, http.StatusOK, "feed.html", map[string]any{
		"Page": page,
	})
}

func (h *Handler) CreatePostPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "create_post.html", map[string]any{
		"Guest": !session.IsAuthenticated(c),
	})
}

func (h *Handler) CreatePost(c echo.Context) error {
	if session.IsAuthenticated(c) {
		return h.createPostAuthenticated(c)
	}
	return h.createPostGuest(c)
}

func (h *Handler) createPostAuthenticated(c echo.Context) error {
	var form PostForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, "create_post.html", map[string]any{
			"Error": "Neplatny formular",
		})
	}
	if err := h.validate.Struct(&form); err != nil {
		return h.render(c, http.StatusOK, "create_post.html", map[string]any{
			"Error": "Neplatny formular",
			"Form":  form,
		})
	}

	_, err := h.posts.Create(session.GetUserID(c), form.Title, form.Text, form.Example)
	switch {
	case errors.Is(err, posts.ErrEmptyContent):
		return h.render(c, http.StatusOK, "create_post.html", map[string]any{
			"Error": "Neplatny formular",
			"Form":  form,
		})
	case err != nil:
		h.logger.Error("failed to create post", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return redirectHome(c)
}

func (h *Handler) createPostGuest(c echo.Context) error {
	var form GuestPostForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, "create_post.html", map[string]any{
			"Error": "Neplatny formular",
			"Guest": true,
		})
	}
	if err := h.validate.Struct(&form); err != nil {
		return h.render(c, http.StatusOK, "create_post.html", map[string]any{
			"Error": "Neplatny formular",
			"Guest": true,
			"Form":  form.PostForm,
		})
	}

	err := h.posts.SubmitGuest(form.Email, form.Title, form.Text, form.Example)
	switch {
	case errors.Is(err, posts.ErrEmptyContent):
		return h.render(c, http.StatusOK, "create_post.html", map[string]any{
			"Error": "Neplatny formular",
			"Guest": true,
			"Form":  form.PostForm,
		})
	case errors.Is(err, posts.ErrMailDelivery):
		return h.render(c, http.StatusOK, "create_post.html", map[string]any{
			"Error": "Nepodarilo sa poslat email pre overenie.",
			"Guest": true,
			"Form":  form.PostForm,
		})
	case err != nil:
		h.logger.Error("failed to hold guest submission", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	session.SetFlashSuccess(c, "Email pre overenie bol poslany.")
	return redirectHome(c)
}

func (h *Handler) VerifyPost(c echo.Context) error {
	_, err := h.posts.Promote(c.Param("token"))
	if err != nil {
		if errors.Is(err, posts.ErrTokenInvalid) {
			return c.String(http.StatusNotFound, "Neplatny odkaz")
		}
		h.logger.Error("post verification failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return redirectHome(c)
}

func (h *Handler) UserPosts(c echo.Context) error {
	page, err := h.posts.UserPosts(session.GetUserID(c), pageParam(c))
	if err != nil {
		h.logger.Error("failed to load user posts", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return h.render(c, http.StatusOK, "feed.html", map[string]any{
		"Page": page,
	})
}

func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("search")

	page, err := h.posts.Search(query, pageParam(c))
	if err != nil {
		h.logger.Error("search failed", zap.Error(err), zap.String("query", query))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return h.render(c, http.StatusOK, "feed.html", map[string]any{
		"Page":   page,
		"Search": query,
	})
}
