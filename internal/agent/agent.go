// Package agent defines the capability contract for pipeline steps and the
// built-in capabilities (planner, safety gate).
package agent

import (
	"context"

	"github.com/draftloom/orchestrator/internal/domain"
)

// Input is what a capability receives for one run.
type Input struct {
	OwnerID string
	Goal    string
}

// ArtifactWriter is the narrow port through which an agent persists
// output. Agents never touch the store directly; the orchestrator binds
// the writer to the current run.
type ArtifactWriter interface {
	Write(ctx context.Context, kind domain.ArtifactKind, label string, payload interface{}, ttlSeconds int) error
}

// Capability is one polymorphic unit of work in the pipeline.
type Capability interface {
	// Name identifies the agent in events and error metadata.
	Name() string

	// CostUsd is the fixed spend debited from the run budget before the
	// capability executes. Zero-cost capabilities skip the debit.
	CostUsd() float64

	// Run consumes the input and writes any artifacts through out.
	Run(ctx context.Context, in Input, out ArtifactWriter) error
}
