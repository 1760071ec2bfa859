// Package v1 provides the user-facing run API handlers.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/draftloom/orchestrator/config"
	"github.com/draftloom/orchestrator/internal/domain"
	"github.com/draftloom/orchestrator/internal/service"
)

// HeaderUserID carries the resolved caller identity. Authentication
// mechanics live upstream; an empty header means no resolvable identity.
const HeaderUserID = "X-User-ID"

// Handler handles external run requests.
type Handler struct {
	service *service.Service
	config  *config.Config
}

// NewHandler creates a new v1 handler.
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		service: svc,
		config:  cfg,
	}
}

// RegisterRoutes registers v1 routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/run", h.StartRun)
	e.GET("/v1/runs", h.ListRuns)
	e.GET("/v1/status/:run_id", h.GetStatus)
	e.GET("/v1/status/:run_id/stream", h.StreamStatus)
	e.POST("/v1/runs/:run_id/cancel", h.CancelRun)
}

// ownerID resolves the caller identity from the request.
func ownerID(c echo.Context) string {
	return c.Request().Header.Get(HeaderUserID)
}

// renderError maps the domain error taxonomy onto HTTP status codes.
// NotFound renders identically for absent and foreign resources.
func renderError(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.IsAuth(err):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case domain.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
