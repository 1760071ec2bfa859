package agent

import (
	"context"
	"fmt"

	"github.com/draftloom/orchestrator/internal/domain"
)

// DefaultPlanTTLSeconds is the default lifetime of planning output.
const DefaultPlanTTLSeconds = 86400

// Planner produces a plan.graph artifact for a goal. Planning is a
// synchronous, deterministic function of the input with no side effects
// beyond the artifact write.
type Planner struct {
	costUsd    float64
	ttlSeconds int
}

// NewPlanner creates a planner. A non-positive ttlSeconds falls back to
// the one-day default.
func NewPlanner(costUsd float64, ttlSeconds int) *Planner {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultPlanTTLSeconds
	}
	return &Planner{costUsd: costUsd, ttlSeconds: ttlSeconds}
}

func (p *Planner) Name() string {
	return "planner"
}

func (p *Planner) CostUsd() float64 {
	return p.costUsd
}

func (p *Planner) Run(ctx context.Context, in Input, out ArtifactWriter) error {
	plan := BuildPlan(in)
	if err := out.Write(ctx, domain.ArtifactKindPlanGraph, "execution plan", plan, p.ttlSeconds); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// BuildPlan derives the two-phase draft/render plan for a goal. Same input
// always yields the same plan.
func BuildPlan(in Input) domain.PlanGraph {
	return domain.PlanGraph{
		Goal: in.Goal,
		Steps: []domain.PlanStep{
			{
				StepID: "step_1",
				Agent:  "drafter",
				Action: fmt.Sprintf("Draft content for goal: %s", in.Goal),
			},
			{
				StepID:    "step_2",
				Agent:     "renderer",
				Action:    "Render the drafted content into its final format",
				DependsOn: []string{"step_1"},
			},
		},
	}
}
