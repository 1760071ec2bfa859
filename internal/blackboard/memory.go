package blackboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/draftloom/orchestrator/internal/domain"
)

// MemoryStore is the ephemeral single-process backend. It is an explicitly
// constructed instance, never a process-wide singleton, so tests and
// multi-tenant compositions can hold independent stores.
type MemoryStore struct {
	mu        sync.RWMutex
	runs      map[string]*domain.Run
	artifacts map[string][]domain.Artifact // keyed by run id, append order
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:      make(map[string]*domain.Run),
		artifacts: make(map[string][]domain.Artifact),
	}
}

func (s *MemoryStore) CreateRun(ctx context.Context, run *domain.Run) error {
	if run.RunID == "" {
		run.RunID = NewRunID()
	}
	now := time.Now()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *run
	s.runs[run.RunID] = &cp
	return nil
}

func (s *MemoryStore) GetRun(ctx context.Context, ownerID, runID string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok || run.OwnerID != ownerID {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}

func (s *MemoryStore) UpdateRun(ctx context.Context, ownerID, runID string, patch domain.RunPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok || run.OwnerID != ownerID || run.Status.IsTerminal() {
		return nil
	}
	if patch.Status != nil {
		run.Status = *patch.Status
	}
	if patch.Budget != nil {
		run.Budget = *patch.Budget
	}
	if patch.Error != nil {
		run.Error = patch.Error
	}
	run.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SaveArtifact(ctx context.Context, artifact *domain.Artifact, ttlSeconds int) error {
	if err := domain.ValidatePayload(artifact.Kind, artifact.Payload); err != nil {
		return err
	}
	if artifact.ArtifactID == "" {
		artifact.ArtifactID = NewArtifactID()
	}
	now := time.Now()
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = now
	}
	if ttlSeconds != 0 {
		expires := now.Add(time.Duration(ttlSeconds) * time.Second)
		artifact.ExpiresAt = &expires
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[artifact.RunID] = append(s.artifacts[artifact.RunID], *artifact)
	return nil
}

func (s *MemoryStore) ListArtifacts(ctx context.Context, ownerID, runID string) ([]domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok || run.OwnerID != ownerID {
		return []domain.Artifact{}, nil
	}

	now := time.Now()
	out := []domain.Artifact{}
	for _, a := range s.artifacts[runID] {
		if a.OwnerID != ownerID {
			continue
		}
		if a.ExpiresAt != nil && !a.ExpiresAt.After(now) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *MemoryStore) ListRuns(ctx context.Context, ownerID string, limit int) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Run
	for _, run := range s.runs {
		if run.OwnerID == ownerID {
			out = append(out, *run)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	limit = clampLimit(limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CleanupExpired(ctx context.Context, maxRows int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var affected int64
	for runID, arts := range s.artifacts {
		kept := arts[:0]
		for _, a := range arts {
			if a.ExpiresAt != nil && !a.ExpiresAt.After(now) && (maxRows <= 0 || affected < int64(maxRows)) {
				affected++
				continue
			}
			kept = append(kept, a)
		}
		if len(kept) == 0 {
			delete(s.artifacts, runID)
		} else {
			s.artifacts[runID] = kept
		}
	}
	return affected, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
