//go:build abortif

package main

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/labstack/echo/v4"
)

const debugPrefix = "/debug"

// installDebugRoutes exposes the route table and the pprof handlers.
// Production builds must not ship it.
//
//abortif:production
func installDebugRoutes(e *echo.Echo) {
	g := e.Group(debugPrefix)
	g.GET("/routes", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, e.Routes(), "  ")
	})
	g.GET("/pprof/*", echo.WrapHandler(http.DefaultServeMux))
}
