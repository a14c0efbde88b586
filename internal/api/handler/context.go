package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pressbox/blog-api/internal/core/ports"
)

// ctxPrincipal extracts the principal injected by the Auth middleware
// and performs a fast-fail check before any service call: a missing
// user id means the middleware did not run on this route.
func ctxPrincipal(c echo.Context) (ports.Principal, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ports.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	groups, _ := c.Get("groups").([]string)

	return ports.Principal{
		UserID: userID,
		Email:  email,
		Role:   role,
		Groups: groups,
	}, nil
}
