package domain

import (
	"encoding/json"
	"time"
)

// Budget tracks monetary spend for a run against a hard cap.
type Budget struct {
	HardCapUsd float64 `json:"hard_cap_usd"`
	SpentUsd   float64 `json:"spent_usd"`
}

// Run represents a single execution of the agent pipeline for one owner.
type Run struct {
	RunID     string          `json:"run_id"`
	OwnerID   string          `json:"owner_id"`
	Status    RunStatus       `json:"status"`
	Budget    Budget          `json:"budget"`
	Error     json.RawMessage `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RunPatch is a merge patch applied by the store's UpdateRun. Nil fields
// are left untouched.
type RunPatch struct {
	Status *RunStatus
	Budget *Budget
	Error  json.RawMessage
}

// Artifact is an output produced by an agent step during a run. A nil
// ExpiresAt means the artifact never expires.
type Artifact struct {
	ArtifactID string          `json:"artifact_id"`
	RunID      string          `json:"run_id"`
	OwnerID    string          `json:"owner_id"`
	Kind       ArtifactKind    `json:"kind"`
	Label      string          `json:"label,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// StepEvent is one lifecycle notification for a run. Events for a run form
// a strictly ordered sequence ending in exactly one terminal event.
type StepEvent struct {
	RunID   string       `json:"run_id"`
	Agent   string       `json:"agent"`
	Type    EventType    `json:"type"`
	Ts      int64        `json:"ts"` // Unix milliseconds
	Kind    ArtifactKind `json:"kind,omitempty"`
	Label   string       `json:"label,omitempty"`
	Message string       `json:"message,omitempty"`
}
