package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Placeholder returns a static handler for the domain modules that are not
// built yet. Each module keeps its route registered so clients can discover
// the API shape ahead of the implementation.
func Placeholder(module string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": module + " route - to be implemented",
		})
	}
}
