// An echo service demonstrating abortif.
//
// The debug routes in debug.go are guarded by //abortif:production, so
// building this server with -tags production fails compilation instead
// of shipping the debug surface. Regenerate the gated variants with:
//
//	abortif .
package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func main() {
	e := echo.New()
	e.POST("/echo", handleEcho)
	installDebugRoutes(e)
	e.Logger.Fatal(e.Start(":8080"))
}

// handleEcho responds with the request body, verbatim.
func handleEcho(c echo.Context) error {
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, c.Request().Body)
}
