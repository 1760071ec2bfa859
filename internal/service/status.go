package service

import (
	"context"
	"fmt"

	"github.com/draftloom/orchestrator/internal/domain"
)

// GetStatus returns the run with its live artifacts for the owning
// caller. Unknown and foreign runs are indistinguishable.
func (s *Service) GetStatus(ctx context.Context, ownerID, runID string) (*domain.RunStatusResponse, error) {
	run, err := s.store.GetRun(ctx, ownerID, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return nil, &domain.NotFoundError{Resource: "run", ID: runID}
	}

	artifacts, err := s.store.ListArtifacts(ctx, ownerID, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	return &domain.RunStatusResponse{
		ID:        run.RunID,
		Status:    run.Status,
		Artifacts: artifacts,
		Budget:    run.Budget,
	}, nil
}

// ListRuns returns the owner's most recent runs.
func (s *Service) ListRuns(ctx context.Context, ownerID string, limit int) ([]domain.RunSummary, error) {
	runs, err := s.store.ListRuns(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]domain.RunSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, domain.RunSummary{
			RunID:     run.RunID,
			Status:    run.Status,
			Budget:    run.Budget,
			CreatedAt: run.CreatedAt.UnixMilli(),
		})
	}
	return out, nil
}

// CancelRun transitions a non-terminal run to canceled and halts further
// event emission for it. Canceling an already-terminal run is a no-op.
func (s *Service) CancelRun(ctx context.Context, ownerID, runID string) error {
	run, err := s.store.GetRun(ctx, ownerID, runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return &domain.NotFoundError{Resource: "run", ID: runID}
	}
	if run.Status.IsTerminal() {
		return nil
	}

	canceled := domain.RunStatusCanceled
	if err := s.store.UpdateRun(ctx, ownerID, runID, domain.RunPatch{Status: &canceled}); err != nil {
		return fmt.Errorf("failed to cancel run: %w", err)
	}
	s.bus.CloseRun(runID)
	return nil
}

// CleanupTTLs purges expired artifacts across all owners and runs.
func (s *Service) CleanupTTLs(ctx context.Context, maxRows int) (int64, error) {
	affected, err := s.store.CleanupExpired(ctx, maxRows)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired artifacts: %w", err)
	}
	return affected, nil
}
