package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/draftloom/orchestrator/internal/domain"
)

// OpTTLCleanup is the only maintenance op currently recognized.
const OpTTLCleanup = "ttl_cleanup"

// CleanupTTL purges expired artifacts. Idempotent: invoking it again with
// nothing newly expired reports affected=0.
// POST /maintenance/ttl
func (h *Handler) CleanupTTL(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "invalid internal token"})
	}

	var req domain.MaintenanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Op != OpTTLCleanup {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unrecognized op"})
	}

	// Storage errors here are transient; the maintenance caller may retry.
	affected, err := h.service.CleanupTTLs(c.Request().Context(), req.MaxRows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, domain.MaintenanceResponse{OK: true, Affected: affected})
}
