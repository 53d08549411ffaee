package handlers

import (
	"urbandict/config"
	"urbandict/metrics"
	"urbandict/middleware/ratelimit"
	"urbandict/server"
	"urbandict/services/templates"
	"urbandict/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func RegisterRoutes(
	srv *server.Server,
	h *Handler,
	manager *session.Manager,
	sessionSvc session.SessionService,
	tmpl *templates.Service,
	cfg *config.Config,
) {
	srv.SetRenderer(tmpl.Renderer())
	srv.Use(session.Middleware(manager))
	srv.Use(session.ServiceMiddleware(sessionSvc))

	requireAuth := session.RequireAuthWeb("/posts/login")

	var limited echo.MiddlewareFunc = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if cfg.RateLimit.Enabled {
		limited = ratelimit.Middleware(&ratelimit.Config{
			Rate:   cfg.RateLimit.Rate,
			Period: cfg.RateLimit.Period,
		})
	}

	srv.Echo().Static("/static", "static")

	srv.Get("/", redirectHome)
	srv.Get("/posts", h.Feed)
	srv.Get("/posts/random_post", h.RandomPost)
	srv.Get("/posts/create_post", h.CreatePostPage)
	srv.Post("/posts/create_post", h.CreatePost, limited)
	srv.Get("/posts/verify_post/:token", h.VerifyPost)
	srv.Get("/posts/login", h.LoginPage)
	srv.Post("/posts/login", h.Login, limited)
	srv.Get("/posts/logout", h.Logout, requireAuth)
	srv.Get("/posts/register", h.RegisterPage)
	srv.Post("/posts/register", h.Register, limited)
	srv.Get("/posts/verify_user/:token", h.VerifyUser)
	srv.Get("/posts/account", h.Account, requireAuth)
	srv.Get("/posts/change_password", h.ChangePasswordPage, requireAuth)
	srv.Post("/posts/change_password", h.ChangePassword, requireAuth)
	srv.Get("/posts/my_posts", h.UserPosts, requireAuth)
	srv.Get("/posts/search", h.Search)
	srv.Post("/posts/:id/react", h.React)
	srv.Get("/metrics", metrics.Handler())
}

var Module = fx.Options(
	fx.Provide(NewHandler),
)
