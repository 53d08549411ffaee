package handlers

import (
	"net/http"

	"urbandict/config"
	"urbandict/services/auth"
	"urbandict/services/logging"
	"urbandict/services/posts"
	"urbandict/services/reactions"
	"urbandict/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const homeURL = "/posts?page=1"

type Handler struct {
	config    *config.Config
	logger    *logging.Service
	auth      *auth.Service
	posts     *posts.Service
	reactions *reactions.Service
	sessions  session.SessionService
	validate  *validator.Validate
}

func NewHandler(
	cfg *config.Config,
	logger *logging.Service,
	authSvc *auth.Service,
	postSvc *posts.Service,
	reactionSvc *reactions.Service,
	sessionSvc session.SessionService,
) *Handler {
	return &Handler{
		config:    cfg,
		logger:    logger,
		auth:      authSvc,
		posts:     postSvc,
		reactions: reactionSvc,
		sessions:  sessionSvc,
		validate:  validator.New(),
	}
}

func redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusFound, homeURL)
}

func (h *Handler) render(c echo.Context, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["AppName"] = h.config.App.Name
	data["Authenticated"] = session.IsAuthenticated(c)
	if flash := session.GetFlash(c); flash != nil {
		data["Flash"] = flash
	}
	return c.Render(status, name, data)
}
