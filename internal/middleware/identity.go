package middleware

// identity.go carries the authenticated user through the echo context as a
// typed value.  Only Session writes it; everything else reads it through
// CurrentUser.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/autopro/internal/model"
)

const currentUserKey = "autopro.currentUser"

func setCurrentUser(c echo.Context, u *model.User) {
	c.Set(currentUserKey, u)
}

// CurrentUser returns the user resolved by Session.  ok is false on routes
// without the session middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(currentUserKey).(*model.User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}

// userID returns the caller id for rate-limit keys, "guest" when anonymous.
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return u.ID
	}
	return "guest"
}
