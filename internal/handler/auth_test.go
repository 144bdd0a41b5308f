package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelios/catalog-api/internal/repository"
	"github.com/avelios/catalog-api/internal/service"
)

// stubAuth returns canned results so the handler's translation of the
// service error taxonomy can be checked in isolation.
type stubAuth struct {
	signupErr   error
	loginPair   service.TokenPair
	loginErr    error
	refreshPair service.TokenPair
	refreshErr  error
}

func (s *stubAuth) Signup(_ context.Context, _, _ string) error { return s.signupErr }
func (s *stubAuth) Login(_ context.Context, _, _ string) (service.TokenPair, error) {
	return s.loginPair, s.loginErr
}
func (s *stubAuth) Refresh(_ context.Context, _ string) (service.TokenPair, error) {
	return s.refreshPair, s.refreshErr
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSignupHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		want       int
	}{
		{"success", `{"username":"alice","password":"hunter2"}`, nil, http.StatusOK},
		{"blank fields", `{"username":"","password":""}`, service.ErrBlankCredentials, http.StatusBadRequest},
		{"duplicate username", `{"username":"alice","password":"hunter2"}`, service.ErrUsernameTaken, http.StatusBadRequest},
		{"store down", `{"username":"alice","password":"hunter2"}`, context.DeadlineExceeded, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuth{signupErr: tt.serviceErr})
			rec := postJSON(t, h.Signup, "/api/v1/auth/signup", tt.body)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				body := decodeBody(t, rec)
				assert.EqualValues(t, tt.want, body["status"])
				assert.NotEmpty(t, body["error"])
				assert.NotEmpty(t, body["message"])
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	t.Run("success returns the pair and username", func(t *testing.T) {
		h := NewAuthHandler(&stubAuth{loginPair: service.TokenPair{
			AccessToken:  "access-jwt",
			RefreshToken: "refresh-value",
			Username:     "alice",
		}})
		rec := postJSON(t, h.Login, "/api/v1/auth/login", `{"username":"alice","password":"hunter2"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "access-jwt", body["accessToken"])
		assert.Equal(t, "refresh-value", body["refreshToken"])
		assert.Equal(t, "alice", body["username"])
	})

	t.Run("bad credentials are a uniform 401", func(t *testing.T) {
		h := NewAuthHandler(&stubAuth{loginErr: service.ErrInvalidCredentials})
		rec := postJSON(t, h.Login, "/api/v1/auth/login", `{"username":"alice","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "invalid credentials", body["message"], "body must not say whether the username or the password was wrong")
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewAuthHandler(&stubAuth{refreshPair: service.TokenPair{
			AccessToken:  "new-access-jwt",
			RefreshToken: "same-refresh-value",
		}})
		rec := postJSON(t, h.Refresh, "/api/v1/auth/refresh-token", `{"refreshToken":"same-refresh-value"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "new-access-jwt", body["accessToken"])
		assert.Equal(t, "same-refresh-value", body["refreshToken"])
	})

	t.Run("missing token is a 400", func(t *testing.T) {
		h := NewAuthHandler(&stubAuth{})
		rec := postJSON(t, h.Refresh, "/api/v1/auth/refresh-token", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown and expired tokens share one 401 body", func(t *testing.T) {
		for _, serr := range []error{repository.ErrTokenNotFound, repository.ErrTokenExpired} {
			h := NewAuthHandler(&stubAuth{refreshErr: serr})
			rec := postJSON(t, h.Refresh, "/api/v1/auth/refresh-token", `{"refreshToken":"x"}`)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, "invalid refresh token", body["message"])
		}
	})
}
