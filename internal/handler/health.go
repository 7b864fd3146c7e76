package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// RootMessage is served on GET / so a browser hit shows the API is up.
const RootMessage = "Auto Pro API is running..."

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems.  It returns a plain text "ok" with 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func Root(c echo.Context) error {
	return c.String(http.StatusOK, RootMessage)
}
