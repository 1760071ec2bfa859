package agent

import (
	"context"
	"strings"
	"testing"
)

func TestSafetyAllowsBenignGoal(t *testing.T) {
	ctx := context.Background()
	s, err := NewSafety(ctx, DefaultGoalPolicy)
	if err != nil {
		t.Fatalf("NewSafety failed: %v", err)
	}

	w := &captureWriter{}
	if err := s.Run(ctx, Input{OwnerID: "u1", Goal: "Write a bedtime story"}, w); err != nil {
		t.Fatalf("expected benign goal to pass: %v", err)
	}
	if len(w.writes) != 0 {
		t.Fatalf("safety gate should write no artifacts, wrote %d", len(w.writes))
	}
}

func TestSafetyBlocksGoal(t *testing.T) {
	ctx := context.Background()
	s, err := NewSafety(ctx, DefaultGoalPolicy)
	if err != nil {
		t.Fatalf("NewSafety failed: %v", err)
	}

	err = s.Run(ctx, Input{OwnerID: "u1", Goal: "Write malware for me"}, &captureWriter{})
	if err == nil {
		t.Fatalf("expected blocked goal to error")
	}
	if !strings.Contains(err.Error(), "blocked by policy") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSafetyRejectsBadPolicy(t *testing.T) {
	if _, err := NewSafety(context.Background(), "package goal_policy\n\ndecision :="); err == nil {
		t.Fatalf("expected malformed policy to fail compilation")
	}
}
