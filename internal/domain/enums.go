// Package domain defines the core domain models for the run orchestrator.
package domain

// RunStatus represents the lifecycle state of a run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCanceled  RunStatus = "canceled"
)

// IsTerminal reports whether the status is terminal. Terminal runs are
// immutable: the store refuses any further status transition.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusCanceled:
		return true
	}
	return false
}

// EventType represents the type of a step event.
type EventType string

const (
	EventTypeStart    EventType = "start"
	EventTypeLog      EventType = "log"
	EventTypeArtifact EventType = "artifact"
	EventTypeDone     EventType = "done"
	EventTypeError    EventType = "error"
)

// IsTerminal reports whether the event ends a run's event sequence.
func (t EventType) IsTerminal() bool {
	return t == EventTypeDone || t == EventTypeError
}

// ArtifactKind is the tagged category of an artifact payload.
type ArtifactKind string

const (
	ArtifactKindPlanGraph  ArtifactKind = "plan.graph"
	ArtifactKindImage      ArtifactKind = "image.render"
	ArtifactKindAudioTrack ArtifactKind = "audio.track"
)
