package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/draftloom/orchestrator/internal/domain"
)

// StartRun starts an agent pipeline run.
// POST /v1/run
func (h *Handler) StartRun(c echo.Context) error {
	if !h.config.RunsEnabled {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}

	owner := ownerID(c)
	if owner == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req domain.StartRunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	var capUsd float64
	if req.Budget != nil {
		capUsd = req.Budget.CapUsd
	}

	runID, err := h.service.StartRun(c.Request().Context(), owner, req.Input, capUsd)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, domain.StartRunResponse{RunID: runID})
}

// GetStatus fetches a run with its live artifacts.
// GET /v1/status/:run_id
func (h *Handler) GetStatus(c echo.Context) error {
	owner := ownerID(c)
	if owner == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	status, err := h.service.GetStatus(c.Request().Context(), owner, c.Param("run_id"))
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

// ListRuns lists the caller's most recent runs.
// GET /v1/runs
func (h *Handler) ListRuns(c echo.Context) error {
	owner := ownerID(c)
	if owner == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	runs, err := h.service.ListRuns(c.Request().Context(), owner, limit)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"runs": runs})
}

// CancelRun cancels a non-terminal run.
// POST /v1/runs/:run_id/cancel
func (h *Handler) CancelRun(c echo.Context) error {
	owner := ownerID(c)
	if owner == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	runID := c.Param("run_id")
	if err := h.service.CancelRun(c.Request().Context(), owner, runID); err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"status": domain.RunStatusCanceled,
	})
}
