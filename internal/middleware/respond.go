package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorJSON writes the uniform error body used on every failure path:
// {status, error, message}.  The message never distinguishes which token
// or credential check failed; that detail stays in logs.
func ErrorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}
