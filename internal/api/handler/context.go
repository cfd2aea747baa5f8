package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homequest/realty-api/internal/core/ports"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and fast-fails before any service call: a missing user_id means the
// middleware did not run or the token carried no identity.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, _ := c.Get("role").(string)
	firstName, _ := c.Get("first_name").(string)
	lastName, _ := c.Get("last_name").(string)

	return ports.Actor{ID: userID, Role: role, FirstName: firstName, LastName: lastName}, nil
}
