package middleware

// identity.go holds the request-scoped identity context.  The gate stores
// the authenticated username and role on the Echo context; everything
// downstream reads them through these accessors.  There is no ambient
// process-wide caller state: identity lives and dies with one request.

import "github.com/labstack/echo/v4"

const (
	identityUsernameKey = "identity.username"
	identityRoleKey     = "identity.role"
)

func setIdentity(c echo.Context, username, role string) {
	c.Set(identityUsernameKey, username)
	c.Set(identityRoleKey, role)
}

// CurrentUsername returns the authenticated username for this request,
// or "" when the request is anonymous.  Handlers use it for audit
// fields such as created_by.
func CurrentUsername(c echo.Context) string {
	if v, ok := c.Get(identityUsernameKey).(string); ok {
		return v
	}
	return ""
}

// CurrentRole returns the authenticated role for this request, or ""
// when anonymous.
func CurrentRole(c echo.Context) string {
	if v, ok := c.Get(identityRoleKey).(string); ok {
		return v
	}
	return ""
}
