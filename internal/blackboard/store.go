// Package blackboard defines the run/artifact store interface and its
// backends. Tenant isolation is enforced inside the store: every read or
// update that takes both a run id and an owner id filters on both, so a
// foreign owner observes the same behavior as querying a nonexistent run.
package blackboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/draftloom/orchestrator/internal/domain"
)

// MaxListRuns caps the page size of ListRuns.
const MaxListRuns = 50

// Store is the blackboard contract, identical across backends.
type Store interface {
	// CreateRun persists a new run. A missing RunID is allocated.
	CreateRun(ctx context.Context, run *domain.Run) error

	// GetRun returns the run, or nil (no error) when the run is absent or
	// owned by someone else.
	GetRun(ctx context.Context, ownerID, runID string) (*domain.Run, error)

	// UpdateRun merge-patches the run iff it exists, belongs to ownerID and
	// is not terminal. Otherwise it is a silent no-op the caller cannot
	// distinguish from success; callers needing confirmation must re-read.
	UpdateRun(ctx context.Context, ownerID, runID string, patch domain.RunPatch) error

	// SaveArtifact appends an artifact. A positive ttlSeconds sets
	// ExpiresAt to now+ttl; zero leaves the artifact permanent.
	SaveArtifact(ctx context.Context, artifact *domain.Artifact, ttlSeconds int) error

	// ListArtifacts returns the non-expired artifacts of (runID, ownerID),
	// ascending by creation time. Empty, never an error, for an unknown or
	// foreign run.
	ListArtifacts(ctx context.Context, ownerID, runID string) ([]domain.Artifact, error)

	// ListRuns returns the owner's most recent runs, descending by
	// creation time, capped at MaxListRuns.
	ListRuns(ctx context.Context, ownerID string, limit int) ([]domain.Run, error)

	// CleanupExpired removes every artifact whose expiry has passed,
	// across all owners and runs. Idempotent. A positive maxRows bounds
	// the batch. Run records are never touched.
	CleanupExpired(ctx context.Context, maxRows int) (int64, error)

	Close() error
}

// NewRunID allocates a run id.
func NewRunID() string {
	return "run_" + uuid.New().String()[:8]
}

// NewArtifactID allocates an artifact id.
func NewArtifactID() string {
	return "art_" + uuid.New().String()[:8]
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListRuns {
		return MaxListRuns
	}
	return limit
}
