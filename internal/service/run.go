package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/draftloom/orchestrator/internal/agent"
	"github.com/draftloom/orchestrator/internal/blackboard"
	"github.com/draftloom/orchestrator/internal/budget"
	"github.com/draftloom/orchestrator/internal/domain"
)

const orchestratorAgent = "orchestrator"

// StartRun executes the agent pipeline for one goal. The run id is
// returned even when the pipeline fails: the failure is recorded on the
// run and observed via the status fetch, never as a stuck "running" run.
func (s *Service) StartRun(ctx context.Context, ownerID string, input domain.RunInput, capUsd float64) (string, error) {
	if ownerID == "" {
		return "", &domain.AuthError{Reason: "no caller identity"}
	}
	if input.Goal == "" {
		return "", &domain.ValidationError{Field: "input.goal", Reason: "goal is required"}
	}
	if capUsd <= 0 {
		capUsd = s.config.DefaultBudgetCapUsd
	}

	run := &domain.Run{
		RunID:   blackboard.NewRunID(),
		OwnerID: ownerID,
		Status:  domain.RunStatusQueued,
		Budget:  domain.Budget{HardCapUsd: capUsd},
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	s.publish(domain.StepEvent{
		RunID: run.RunID,
		Agent: orchestratorAgent,
		Type:  domain.EventTypeStart,
	})

	running := domain.RunStatusRunning
	if err := s.store.UpdateRun(ctx, ownerID, run.RunID, domain.RunPatch{Status: &running}); err != nil {
		log.Printf("ERROR: failed to update run status: %v", err)
	}

	bm := budget.NewManager(run.Budget.HardCapUsd, run.Budget.SpentUsd)
	if err := s.executePipeline(ctx, run, input, bm); err != nil {
		s.failRun(ctx, run, bm, err)
		return run.RunID, nil
	}

	// Terminal status is written before the done event goes out so a
	// status fetch triggered by the event always sees the terminal run.
	succeeded := domain.RunStatusSucceeded
	finalBudget := bm.State()
	if err := s.store.UpdateRun(ctx, ownerID, run.RunID, domain.RunPatch{Status: &succeeded, Budget: &finalBudget}); err != nil {
		log.Printf("ERROR: failed to update run status: %v", err)
	}
	s.publish(domain.StepEvent{
		RunID: run.RunID,
		Agent: orchestratorAgent,
		Type:  domain.EventTypeDone,
	})

	return run.RunID, nil
}

func (s *Service) executePipeline(ctx context.Context, run *domain.Run, input domain.RunInput, bm *budget.Manager) error {
	in := agent.Input{OwnerID: run.OwnerID, Goal: input.Goal}

	for _, capability := range s.pipeline {
		if cost := capability.CostUsd(); cost > 0 {
			if err := bm.Debit(cost); err != nil {
				return err
			}
			spent := bm.State()
			if err := s.store.UpdateRun(ctx, run.OwnerID, run.RunID, domain.RunPatch{Budget: &spent}); err != nil {
				log.Printf("ERROR: failed to update run budget: %v", err)
			}
		}

		writer := &runWriter{svc: s, run: run, agent: capability.Name()}
		if err := capability.Run(ctx, in, writer); err != nil {
			return &domain.AgentError{Agent: capability.Name(), Err: err}
		}
	}
	return nil
}

// failRun records the error on the run and emits the terminal error
// event. BudgetExceeded and agent failures both land here; the run is
// never left in running.
func (s *Service) failRun(ctx context.Context, run *domain.Run, bm *budget.Manager, cause error) {
	code := "agent_error"
	if domain.IsBudgetExceeded(cause) {
		code = "budget_exceeded"
	}
	errData, _ := json.Marshal(map[string]string{"code": code, "message": cause.Error()})

	failed := domain.RunStatusFailed
	finalBudget := bm.State()
	if err := s.store.UpdateRun(ctx, run.OwnerID, run.RunID, domain.RunPatch{
		Status: &failed,
		Budget: &finalBudget,
		Error:  errData,
	}); err != nil {
		log.Printf("ERROR: failed to record run failure: %v", err)
	}

	s.publish(domain.StepEvent{
		RunID:   run.RunID,
		Agent:   orchestratorAgent,
		Type:    domain.EventTypeError,
		Message: cause.Error(),
	})
}

func (s *Service) publish(evt domain.StepEvent) {
	if evt.Ts == 0 {
		evt.Ts = time.Now().UnixMilli()
	}
	s.bus.Publish(evt)
}

// runWriter binds the agent write port to the current run. The artifact
// event is published only after the store accepted the artifact.
type runWriter struct {
	svc   *Service
	run   *domain.Run
	agent string
}

func (w *runWriter) Write(ctx context.Context, kind domain.ArtifactKind, label string, payload interface{}, ttlSeconds int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	artifact := &domain.Artifact{
		ArtifactID: blackboard.NewArtifactID(),
		RunID:      w.run.RunID,
		OwnerID:    w.run.OwnerID,
		Kind:       kind,
		Label:      label,
		Payload:    data,
	}
	if err := w.svc.store.SaveArtifact(ctx, artifact, ttlSeconds); err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}

	w.svc.publish(domain.StepEvent{
		RunID: w.run.RunID,
		Agent: w.agent,
		Type:  domain.EventTypeArtifact,
		Kind:  kind,
		Label: label,
	})
	return nil
}
