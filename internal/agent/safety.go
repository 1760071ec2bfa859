package agent

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Safety gates run input through a rego policy before any planning
// happens. A blocked goal fails the run without spending budget.
type Safety struct {
	query rego.PreparedEvalQuery
}

// NewSafety compiles the policy once; evaluation is per run.
func NewSafety(ctx context.Context, policyContent string) (*Safety, error) {
	r := rego.New(
		rego.Query("data.goal_policy.decision"),
		rego.Module("goal_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Safety{query: query}, nil
}

func (s *Safety) Name() string {
	return "safety"
}

func (s *Safety) CostUsd() float64 {
	return 0
}

func (s *Safety) Run(ctx context.Context, in Input, out ArtifactWriter) error {
	results, err := s.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"goal":     in.Goal,
		"owner_id": in.OwnerID,
	}))
	if err != nil {
		return fmt.Errorf("failed to evaluate policy: %w", err)
	}

	decision := "allow"
	if len(results) > 0 && len(results[0].Expressions) > 0 {
		if d, ok := results[0].Expressions[0].Value.(string); ok {
			decision = d
		}
	}

	if decision != "allow" {
		return fmt.Errorf("goal blocked by policy: %s", decision)
	}
	return nil
}

// DefaultGoalPolicy is the default policy content.
const DefaultGoalPolicy = `
package goal_policy

import rego.v1

default decision := "allow"

decision := "block" if {
	contains(lower(input.goal), "malware")
}

decision := "block" if {
	contains(lower(input.goal), "self-harm")
}
`
