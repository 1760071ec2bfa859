package helpers

import (
	"testing"

	"github.com/draftloom/orchestrator/internal/blackboard"
)

func NewTestSQLiteStore(t *testing.T) *blackboard.SQLiteStore {
	t.Helper()

	s, err := blackboard.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
