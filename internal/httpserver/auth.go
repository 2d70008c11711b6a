package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zamato/zamato/internal/auth"
	"github.com/zamato/zamato/internal/events"
	"github.com/zamato/zamato/internal/logging"
	"github.com/zamato/zamato/internal/tokens"
)

type AuthHTTP struct {
	Svc      *auth.Service
	Producer events.Publisher
}

func (h *AuthHTTP) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Producer.Publish(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("user_event_publish_failed", "error", err)
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
		}
		if errors.Is(err, auth.ErrUserAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}

	h.publish(c, user.ID.String(), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
	})

	l.Info("register_successful")
	return c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrValidation) || errors.Is(err, auth.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	c.SetCookie(tokens.CreateCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))

	h.publish(c, res.User.ID.String(), map[string]any{
		"type":    "user_logged_in",
		"user_id": res.User.ID,
	})

	l.Info("login_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"user":          res.User,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil || refreshCookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
			c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
			l.Warn("refresh_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	c.SetCookie(tokens.CreateCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if refreshCookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Svc.LogOut(ctx, refreshCookie.Value); err != nil {
			c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
			c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
			l.Error("logout_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
		}
	}

	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
