// Package http provides the HTTP server wiring for the orchestrator.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/draftloom/orchestrator/config"
	"github.com/draftloom/orchestrator/internal/service"
	"github.com/draftloom/orchestrator/internal/transport/http/internalapi"
	v1 "github.com/draftloom/orchestrator/internal/transport/http/v1"
)

// NewExternalServer creates and configures the user-facing HTTP server.
func NewExternalServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	v1.NewHandler(svc, cfg).RegisterRoutes(e)

	return e
}

// NewInternalServer creates and configures the internal-facing HTTP
// server. Only maintenance callers holding the internal token reach it.
func NewInternalServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	internalapi.NewHandler(svc, cfg.InternalToken).RegisterRoutes(e)

	return e
}
