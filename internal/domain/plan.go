package domain

import "encoding/json"

// PlanStep is one step of a planning graph.
type PlanStep struct {
	StepID    string   `json:"step_id"`
	Agent     string   `json:"agent"`
	Action    string   `json:"action"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// PlanGraph is the payload schema for plan.graph artifacts.
type PlanGraph struct {
	Goal  string     `json:"goal"`
	Steps []PlanStep `json:"steps"`
}

// ValidatePayload checks an artifact payload against the schema for its
// kind. Kinds without a registered schema are treated as opaque and pass.
func ValidatePayload(kind ArtifactKind, payload json.RawMessage) error {
	switch kind {
	case ArtifactKindPlanGraph:
		var graph PlanGraph
		if err := json.Unmarshal(payload, &graph); err != nil {
			return &ValidationError{Field: "payload", Reason: "malformed plan.graph payload"}
		}
		if len(graph.Steps) == 0 {
			return &ValidationError{Field: "payload.steps", Reason: "plan has no steps"}
		}
	}
	return nil
}
