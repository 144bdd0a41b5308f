package middleware // middleware provides the per-request authentication gate and policy checks

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelios/catalog-api/internal/model"
	"github.com/avelios/catalog-api/internal/repository"
	"github.com/avelios/catalog-api/internal/utils"
)

// AccountSource is the slice of the credential store the gate needs to
// turn a verified token subject into a live account.
type AccountSource interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// Authenticate returns the request authentication gate.  Per request it
// walks NoCredential -> Extracted -> Verified -> Identified, or rejects:
//
//  1. No bearer value in the Authorization header is not a rejection;
//     the request continues anonymously and the route policy decides.
//  2. A present bearer that fails verification (signature, expiry,
//     malformed) short-circuits with 401.  Fail closed, never forward.
//  3. A verified subject whose account no longer exists also yields 401:
//     cryptographic validity does not guarantee the account survived.
//  4. Otherwise the identity (username, role) is attached to the request
//     scope for the policy and downstream handlers.
func Authenticate(secret string, accounts AccountSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return next(c) // anonymous; the route policy rejects if it must
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			username, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				// The wire response is identical for expired, tampered and
				// malformed tokens; only the log tells them apart.
				c.Logger().Debugf("auth gate: token rejected: %v", err)
				return ErrorJSON(c, http.StatusUnauthorized, "invalid or expired token")
			}

			u, err := accounts.GetByUsername(c.Request().Context(), username)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return ErrorJSON(c, http.StatusUnauthorized, "invalid or expired token")
				}
				return ErrorJSON(c, http.StatusServiceUnavailable, "account lookup failed")
			}

			setIdentity(c, u.Username, u.Role)
			return next(c)
		}
	}
}
