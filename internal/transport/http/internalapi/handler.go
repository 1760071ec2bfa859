// Package internalapi provides HTTP handlers for privileged maintenance
// operations. Callers authenticate with an internal token, never a user
// session.
package internalapi

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	"github.com/draftloom/orchestrator/internal/service"
)

// HeaderInternalToken carries the maintenance credential.
const HeaderInternalToken = "X-Internal-Token"

// Handler handles internal maintenance requests.
type Handler struct {
	service *service.Service
	token   string
}

// NewHandler creates a new internal API handler.
func NewHandler(svc *service.Service, token string) *Handler {
	return &Handler{
		service: svc,
		token:   token,
	}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/maintenance/ttl", h.CleanupTTL)
}

// authorized checks the internal token. An unconfigured token rejects
// everything rather than opening the endpoint.
func (h *Handler) authorized(c echo.Context) bool {
	if h.token == "" {
		return false
	}
	got := c.Request().Header.Get(HeaderInternalToken)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
