package blackboard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/draftloom/orchestrator/internal/domain"
)

// runStoreContractTests exercises the Store contract shared by both
// backends.
func runStoreContractTests(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("CreateUpdateAndList", func(t *testing.T) {
		s := newStore(t)

		run := &domain.Run{
			OwnerID: "u1",
			Status:  domain.RunStatusQueued,
			Budget:  domain.Budget{HardCapUsd: 1.0},
		}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
		if run.RunID == "" {
			t.Fatalf("expected an allocated run id")
		}

		running := domain.RunStatusRunning
		if err := s.UpdateRun(ctx, "u1", run.RunID, domain.RunPatch{Status: &running}); err != nil {
			t.Fatalf("UpdateRun failed: %v", err)
		}

		got, err := s.GetRun(ctx, "u1", run.RunID)
		if err != nil {
			t.Fatalf("GetRun failed: %v", err)
		}
		if got == nil || got.Status != domain.RunStatusRunning {
			t.Fatalf("unexpected run: %+v", got)
		}

		runs, err := s.ListRuns(ctx, "u1", 10)
		if err != nil {
			t.Fatalf("ListRuns failed: %v", err)
		}
		if len(runs) != 1 || runs[0].RunID != run.RunID || runs[0].Status != domain.RunStatusRunning {
			t.Fatalf("unexpected runs: %+v", runs)
		}
	})

	t.Run("TerminalStatusImmutable", func(t *testing.T) {
		s := newStore(t)

		run := &domain.Run{OwnerID: "u1", Status: domain.RunStatusRunning}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}

		succeeded := domain.RunStatusSucceeded
		if err := s.UpdateRun(ctx, "u1", run.RunID, domain.RunPatch{Status: &succeeded}); err != nil {
			t.Fatalf("UpdateRun failed: %v", err)
		}

		failed := domain.RunStatusFailed
		if err := s.UpdateRun(ctx, "u1", run.RunID, domain.RunPatch{Status: &failed}); err != nil {
			t.Fatalf("UpdateRun after terminal failed: %v", err)
		}

		got, err := s.GetRun(ctx, "u1", run.RunID)
		if err != nil {
			t.Fatalf("GetRun failed: %v", err)
		}
		if got.Status != domain.RunStatusSucceeded {
			t.Fatalf("terminal status was overwritten: %s", got.Status)
		}
	})

	t.Run("TenantIsolation", func(t *testing.T) {
		s := newStore(t)

		run := &domain.Run{OwnerID: "alice", Status: domain.RunStatusRunning}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
		art := &domain.Artifact{
			RunID:   run.RunID,
			OwnerID: "alice",
			Kind:    domain.ArtifactKindPlanGraph,
			Payload: json.RawMessage(`{"goal":"g","steps":[{"step_id":"s1","agent":"drafter","action":"a"}]}`),
		}
		if err := s.SaveArtifact(ctx, art, 3600); err != nil {
			t.Fatalf("SaveArtifact failed: %v", err)
		}

		// Bob querying alice's run behaves exactly like querying an
		// unknown id.
		if got, err := s.GetRun(ctx, "bob", run.RunID); err != nil || got != nil {
			t.Fatalf("expected nil run for foreign owner, got %+v err %v", got, err)
		}
		arts, err := s.ListArtifacts(ctx, "bob", run.RunID)
		if err != nil {
			t.Fatalf("ListArtifacts failed: %v", err)
		}
		if len(arts) != 0 {
			t.Fatalf("expected no artifacts for foreign owner, got %d", len(arts))
		}

		failed := domain.RunStatusFailed
		if err := s.UpdateRun(ctx, "bob", run.RunID, domain.RunPatch{Status: &failed}); err != nil {
			t.Fatalf("foreign UpdateRun should be a silent no-op: %v", err)
		}
		got, err := s.GetRun(ctx, "alice", run.RunID)
		if err != nil {
			t.Fatalf("GetRun failed: %v", err)
		}
		if got.Status != domain.RunStatusRunning {
			t.Fatalf("foreign update mutated the run: %s", got.Status)
		}
	})

	t.Run("ArtifactTTLVisibility", func(t *testing.T) {
		s := newStore(t)

		run := &domain.Run{OwnerID: "u1", Status: domain.RunStatusRunning}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}

		base := time.Now().Add(-time.Minute)
		expired := &domain.Artifact{
			RunID: run.RunID, OwnerID: "u1", Kind: domain.ArtifactKindImage,
			Label: "expired", CreatedAt: base,
		}
		if err := s.SaveArtifact(ctx, expired, -10); err != nil {
			t.Fatalf("SaveArtifact failed: %v", err)
		}
		live := &domain.Artifact{
			RunID: run.RunID, OwnerID: "u1", Kind: domain.ArtifactKindImage,
			Label: "live", CreatedAt: base.Add(time.Second),
		}
		if err := s.SaveArtifact(ctx, live, 3600); err != nil {
			t.Fatalf("SaveArtifact failed: %v", err)
		}
		permanent := &domain.Artifact{
			RunID: run.RunID, OwnerID: "u1", Kind: domain.ArtifactKindImage,
			Label: "permanent", CreatedAt: base.Add(2 * time.Second),
		}
		if err := s.SaveArtifact(ctx, permanent, 0); err != nil {
			t.Fatalf("SaveArtifact failed: %v", err)
		}

		arts, err := s.ListArtifacts(ctx, "u1", run.RunID)
		if err != nil {
			t.Fatalf("ListArtifacts failed: %v", err)
		}
		if len(arts) != 2 {
			t.Fatalf("expected 2 live artifacts, got %d", len(arts))
		}
		if arts[0].Label != "live" || arts[1].Label != "permanent" {
			t.Fatalf("expected ascending creation order, got %s, %s", arts[0].Label, arts[1].Label)
		}
		now := time.Now()
		for _, a := range arts {
			if a.ExpiresAt != nil && !a.ExpiresAt.After(now) {
				t.Fatalf("expired artifact leaked into listing: %+v", a)
			}
		}
	})

	t.Run("CleanupExpired", func(t *testing.T) {
		s := newStore(t)

		run := &domain.Run{OwnerID: "u1", Status: domain.RunStatusSucceeded}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
		expired := &domain.Artifact{RunID: run.RunID, OwnerID: "u1", Kind: domain.ArtifactKindImage}
		if err := s.SaveArtifact(ctx, expired, -10); err != nil {
			t.Fatalf("SaveArtifact failed: %v", err)
		}
		live := &domain.Artifact{RunID: run.RunID, OwnerID: "u1", Kind: domain.ArtifactKindImage}
		if err := s.SaveArtifact(ctx, live, 3600); err != nil {
			t.Fatalf("SaveArtifact failed: %v", err)
		}

		affected, err := s.CleanupExpired(ctx, 0)
		if err != nil {
			t.Fatalf("CleanupExpired failed: %v", err)
		}
		if affected != 1 {
			t.Fatalf("expected 1 purged artifact, got %d", affected)
		}

		// Idempotent: nothing newly expired.
		affected, err = s.CleanupExpired(ctx, 0)
		if err != nil {
			t.Fatalf("CleanupExpired failed: %v", err)
		}
		if affected != 0 {
			t.Fatalf("expected 0 on repeat cleanup, got %d", affected)
		}

		// Run records are never touched.
		got, err := s.GetRun(ctx, "u1", run.RunID)
		if err != nil || got == nil {
			t.Fatalf("cleanup touched run records: %+v err %v", got, err)
		}
		arts, err := s.ListArtifacts(ctx, "u1", run.RunID)
		if err != nil {
			t.Fatalf("ListArtifacts failed: %v", err)
		}
		if len(arts) != 1 {
			t.Fatalf("expected live artifact to survive, got %d", len(arts))
		}
	})

	t.Run("CleanupExpiredMaxRows", func(t *testing.T) {
		s := newStore(t)

		run := &domain.Run{OwnerID: "u1", Status: domain.RunStatusSucceeded}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
		for i := 0; i < 3; i++ {
			a := &domain.Artifact{RunID: run.RunID, OwnerID: "u1", Kind: domain.ArtifactKindImage}
			if err := s.SaveArtifact(ctx, a, -10); err != nil {
				t.Fatalf("SaveArtifact failed: %v", err)
			}
		}

		affected, err := s.CleanupExpired(ctx, 2)
		if err != nil {
			t.Fatalf("CleanupExpired failed: %v", err)
		}
		if affected != 2 {
			t.Fatalf("expected batch of 2, got %d", affected)
		}
		affected, err = s.CleanupExpired(ctx, 0)
		if err != nil {
			t.Fatalf("CleanupExpired failed: %v", err)
		}
		if affected != 1 {
			t.Fatalf("expected remaining 1, got %d", affected)
		}
	})

	t.Run("ListRunsOrderAndLimit", func(t *testing.T) {
		s := newStore(t)

		base := time.Now().Add(-time.Hour)
		ids := make([]string, 3)
		for i := 0; i < 3; i++ {
			run := &domain.Run{
				OwnerID:   "u1",
				Status:    domain.RunStatusQueued,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if err := s.CreateRun(ctx, run); err != nil {
				t.Fatalf("CreateRun failed: %v", err)
			}
			ids[i] = run.RunID
		}

		runs, err := s.ListRuns(ctx, "u1", 2)
		if err != nil {
			t.Fatalf("ListRuns failed: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].RunID != ids[2] || runs[1].RunID != ids[1] {
			t.Fatalf("expected most recent first, got %s, %s", runs[0].RunID, runs[1].RunID)
		}
	})

	t.Run("UnknownRunEmptyArtifacts", func(t *testing.T) {
		s := newStore(t)

		arts, err := s.ListArtifacts(ctx, "u1", "run_missing")
		if err != nil {
			t.Fatalf("ListArtifacts should not error for unknown run: %v", err)
		}
		if len(arts) != 0 {
			t.Fatalf("expected empty result, got %d", len(arts))
		}
	})

	t.Run("PayloadValidation", func(t *testing.T) {
		s := newStore(t)

		run := &domain.Run{OwnerID: "u1", Status: domain.RunStatusRunning}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}

		bad := &domain.Artifact{
			RunID: run.RunID, OwnerID: "u1",
			Kind:    domain.ArtifactKindPlanGraph,
			Payload: json.RawMessage(`{"goal":"g","steps":[]}`),
		}
		err := s.SaveArtifact(ctx, bad, 0)
		if !domain.IsValidation(err) {
			t.Fatalf("expected validation error for empty plan, got %v", err)
		}
	})
}
