package blackboard

import (
	"context"
	"sync"
	"testing"

	"github.com/draftloom/orchestrator/internal/domain"
)

func TestMemoryStoreContract(t *testing.T) {
	runStoreContractTests(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStoreIndependentInstances(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryStore()
	b := NewMemoryStore()

	run := &domain.Run{OwnerID: "u1", Status: domain.RunStatusQueued}
	if err := a.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	got, err := b.GetRun(ctx, "u1", run.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got != nil {
		t.Fatalf("stores share state: %+v", got)
	}
}

func TestMemoryStoreConcurrentCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	run := &domain.Run{OwnerID: "u1", Status: domain.RunStatusRunning}
	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				a := &domain.Artifact{RunID: run.RunID, OwnerID: "u1", Kind: domain.ArtifactKindImage}
				_ = s.SaveArtifact(ctx, a, -1)
				_, _ = s.ListArtifacts(ctx, "u1", run.RunID)
				_, _ = s.CleanupExpired(ctx, 0)
			}
		}()
	}
	wg.Wait()

	if _, err := s.CleanupExpired(ctx, 0); err != nil {
		t.Fatalf("CleanupExpired failed after concurrent use: %v", err)
	}
}
