package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelios/catalog-api/internal/model"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		identity string // role set on the context; "" means anonymous
		allowed  []string
		want     int
	}{
		{"anonymous is unauthorized", "", []string{model.RoleUser}, http.StatusUnauthorized},
		{"user allowed on user route", model.RoleUser, []string{model.RoleUser, model.RoleAdmin}, http.StatusOK},
		{"admin allowed on user route", model.RoleAdmin, []string{model.RoleUser, model.RoleAdmin}, http.StatusOK},
		{"user forbidden on admin route", model.RoleUser, []string{model.RoleAdmin}, http.StatusForbidden},
		{"admin allowed on admin route", model.RoleAdmin, []string{model.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/1", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.identity != "" {
				setIdentity(c, "someone", tt.identity)
			}

			h := RequireRole(tt.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			require.NoError(t, h(c))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
