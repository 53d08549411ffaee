package handlers

import (
	"errors"
	"net/http"
	"strings"

	"urbandict/services/auth"
	"urbandict/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) LoginPage(c echo.Context) error {
	if session.IsAuthenticated(c) {
		return redirectHome(c)
	}
	return h.render(c, http.StatusOK, "login.html", map[string]any{
		"Next": c.QueryParam("next"),
	})
}

func (h *Handler) Login(c echo.Context) error {
	if session.IsAuthenticated(c) {
		return redirectHome(c)
	}

	var form LoginForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, "login.html", map[string]any{
			"Error": "Neplatny formular",
		})
	}
	if err := h.validate.Struct(&form); err != nil {
		return h.render(c, http.StatusOK, "login.html", map[string]any{
			"Error":    "Neplatny formular",
			"Username": form.Username,
		})
	}

	user, err := h.auth.Authenticate(form.Username, form.Password)
	switch {
	case errors.Is(err, auth.ErrVerificationPending):
		return h.render(c, http.StatusOK, "login.html", map[string]any{
			"Error":    "Odkaz pre overenie je v maili",
			"Username": form.Username,
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return h.render(c, http.StatusOK, "login.html", map[string]any{
			"Error":    "Invalid username or password",
			"Username": form.Username,
		})
	case err != nil:
		h.logger.Error("login failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	session.Login(c, user.ID)

	if next := c.FormValue("next"); strings.HasPrefix(next, "/") {
		return c.Redirect(http.StatusFound, next)
	}
	return redirectHome(c)
}

func (h *Handler) Logout(c echo.Context) error {
	session.Logout(c)
	return redirectHome(c)
}

func (h *Handler) RegisterPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "register.html", nil)
}

func (h *Handler) Register(c echo.Context) error {
	var form RegisterForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, "register.html", map[string]any{
			"Errors": []string{"Neplatny formular"},
		})
	}

	if errs := form.Validate(h.validate); len(errs) > 0 {
		return h.render(c, http.StatusOK, "register.html", map[string]any{
			"Errors":   errs,
			"Username": form.Username,
			"Email":    form.Email,
		})
	}

	err := h.auth.Register(form.Username, form.Email, form.Password)
	switch {
	case errors.Is(err, auth.ErrEmailInUse):
		return h.render(c, http.StatusOK, "register.html", map[string]any{
			"Errors":   []string{"Tento email je uz pouzity."},
			"Username": form.Username,
			"Email":    form.Email,
		})
	case errors.Is(err, auth.ErrUsernameTaken):
		return h.render(c, http.StatusOK, "register.html", map[string]any{
			"Errors":   []string{"Toto meno je uz pouzite."},
			"Username": form.Username,
			"Email":    form.Email,
		})
	case errors.Is(err, auth.ErrMailDelivery):
		return h.render(c, http.StatusOK, "register.html", map[string]any{
			"Errors":   []string{"Nepodarilo sa poslat email pre overenie."},
			"Username": form.Username,
			"Email":    form.Email,
		})
	case err != nil:
		return h.render(c, http.StatusOK, "register.html", map[string]any{
			"Errors":   []string{err.Error()},
			"Username": form.Username,
			"Email":    form.Email,
		})
	}

	session.SetFlashSuccess(c, "Email pre overenie bol poslany.")
	return c.Redirect(http.StatusFound, "/posts/login")
}

func (h *Handler) VerifyUser(c echo.Context) error {
	err := h.auth.VerifyUser(c.Param("token"))
	if err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) {
			return c.String(http.StatusNotFound, "Neplatny odkaz")
		}
		h.logger.Error("user verification failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	session.SetFlashSuccess(c, "Ucet bol vytvoreny.")
	return c.Redirect(http.StatusFound, "/posts/login")
}

func (h *Handler) Account(c echo.Context) error {
	user, err := h.auth.GetUser(session.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to load account", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	sessions, err := h.sessions.GetUserSessions(user.ID, session.Token(c))
	if err != nil {
		h.logger.Error("failed to load sessions", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	type sessionRow struct {
		Browser   string
		IPAddress string
		LastUsed  string
		Current   bool
	}
	rows := make([]sessionRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, sessionRow{
			Browser:   session.GetBrowserInfo(s.UserAgent),
			IPAddress: s.IPAddress,
			LastUsed:  s.LastUsed.Format("2006-01-02 15:04"),
			Current:   s.Current,
		})
	}

	return h.render(c, http.StatusOK, "account.html", map[string]any{
		"Username": user.Username,
		"Email":    user.Email,
		"Sessions": rows,
	})
}

func (h *Handler) ChangePasswordPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "change_password.html", nil)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var form ChangePasswordForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, "change_password.html", map[string]any{
			"Error": "Neplatny formular",
		})
	}
	if err := h.validate.Struct(&form); err != nil {
		return h.render(c, http.StatusOK, "change_password.html", map[string]any{
			"Error": "Neplatny formular",
		})
	}
	if form.NewPassword != form.ConfirmPassword {
		return h.render(c, http.StatusOK, "change_password.html", map[string]any{
			"Error": "Hesla nesedia.",
		})
	}

	userID := session.GetUserID(c)
	err := h.auth.ChangePassword(userID, form.OldPassword, form.NewPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return h.render(c, http.StatusOK, "change_password.html", map[string]any{
			"Error": "Nespravne stare heslo",
		})
	case err != nil:
		return h.render(c, http.StatusOK, "change_password.html", map[string]any{
			"Error": err.Error(),
		})
	}

	// The current session stays valid, every other one is revoked.
	if err := h.sessions.RevokeAllOtherSessions(userID, session.Token(c)); err != nil {
		h.logger.Error("failed to revoke other sessions", zap.Error(err))
	}

	session.SetFlashSuccess(c, "Heslo bolo zmenene.")
	return c.Redirect(http.StatusFound, "/posts/account")
}
