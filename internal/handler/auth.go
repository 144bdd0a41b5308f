package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelios/catalog-api/internal/middleware"
	"github.com/avelios/catalog-api/internal/model"
	"github.com/avelios/catalog-api/internal/repository"
	"github.com/avelios/catalog-api/internal/service"
)

// AuthFlows is the slice of the auth service the transport needs.
type AuthFlows interface {
	Signup(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (service.TokenPair, error)
	Refresh(ctx context.Context, value string) (service.TokenPair, error)
}

// AuthHandler exposes signup, login and refresh-token over HTTP and
// translates the service error taxonomy into wire responses.  Token
// failures all collapse into the same 401 body: the reason is logged,
// never returned.
type AuthHandler struct {
	Auth AuthFlows
}

func NewAuthHandler(a AuthFlows) *AuthHandler { return &AuthHandler{Auth: a} }

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
}
type refreshResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Signup handles POST /api/v1/auth/signup.  No tokens are issued here;
// the client logs in afterwards.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Signup(ctx, req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrBlankCredentials):
			return middleware.ErrorJSON(c, http.StatusBadRequest, "username and password are required")
		case errors.Is(err, service.ErrUsernameTaken):
			return middleware.ErrorJSON(c, http.StatusBadRequest, "username already exists")
		default:
			return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "signup failed")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user registered successfully"})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return middleware.ErrorJSON(c, http.StatusUnauthorized, "invalid credentials")
		}
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "login failed")
	}
	return c.JSON(http.StatusOK, loginResp{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Username:     pair.Username,
	})
}

// Refresh handles POST /api/v1/auth/refresh-token.  Unknown and expired
// tokens produce the same response body so the endpoint cannot be used
// to probe which values ever existed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "refreshToken is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTokenNotFound), errors.Is(err, repository.ErrTokenExpired):
			c.Logger().Debugf("refresh rejected: %v", err)
			return middleware.ErrorJSON(c, http.StatusUnauthorized, "invalid refresh token")
		default:
			return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "refresh failed")
		}
	}
	return c.JSON(http.StatusOK, refreshResp{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Me returns the identity attached by the gate; a simple protected probe.
func (h *AuthHandler) Me(c echo.Context) error {
	role := middleware.CurrentRole(c)
	return c.JSON(http.StatusOK, echo.Map{
		"username":    middleware.CurrentUsername(c),
		"role":        role,
		"authorities": model.Authorities(role),
	})
}
