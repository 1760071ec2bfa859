package v1

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/draftloom/orchestrator/internal/domain"
)

// StreamStatus streams a run's step events via SSE until the terminal
// event. There is no replay: a client that reconnects after a gap falls
// back to GET /v1/status/:run_id for the latest known state.
// GET /v1/status/:run_id/stream
func (h *Handler) StreamStatus(c echo.Context) error {
	if !h.config.RunsEnabled {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}

	owner := ownerID(c)
	if owner == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	runID := c.Param("run_id")
	// Ownership gate before attaching: foreign and unknown runs answer
	// identically.
	status, err := h.service.GetStatus(c.Request().Context(), owner, runID)
	if err != nil {
		return renderError(c, err)
	}

	ch, cancel := h.service.Bus().Subscribe(runID)
	defer cancel()

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	if flusher, ok := c.Response().Writer.(http.Flusher); ok {
		flusher.Flush()
	}

	if status.Status.IsTerminal() {
		// The event sequence already ended; the subscription channel is
		// closed and the snapshot above is all there is to say.
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return nil
		case evt, ok := <-ch:
			if !ok {
				// Terminal event delivered (or run canceled); stream ends.
				return nil
			}
			if err := writeSSEEvent(c, evt); err != nil {
				log.Printf("ERROR: failed to send SSE event: %v", err)
				return err
			}
		}
	}
}

// writeSSEEvent sends a single event in SSE format.
func writeSSEEvent(c echo.Context, evt domain.StepEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(c.Response().Writer, "event: %s\n", evt.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data); err != nil {
		return err
	}

	if flusher, ok := c.Response().Writer.(http.Flusher); ok {
		flusher.Flush()
	}

	return nil
}
