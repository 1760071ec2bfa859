// Package budget enforces the per-run monetary spend cap.
package budget

import (
	"sync"

	"github.com/draftloom/orchestrator/internal/domain"
)

// Manager tracks cumulative spend for one run against a hard cap.
//
// Debits are serialized under a single mutex so concurrent agents cannot
// race independent reads of the counter. The invariant spent <= cap holds
// after every successful debit.
type Manager struct {
	mu         sync.Mutex
	hardCapUsd float64
	spentUsd   float64
}

// NewManager creates a manager for one run.
func NewManager(hardCapUsd, initialSpent float64) *Manager {
	return &Manager{
		hardCapUsd: hardCapUsd,
		spentUsd:   initialSpent,
	}
}

// Debit atomically checks spent+amount against the cap and commits only
// when the cap is not breached. A rejected debit leaves spent unchanged
// and returns a BudgetExceededError.
func (m *Manager) Debit(amount float64) error {
	if amount < 0 {
		return &domain.ValidationError{Field: "amount", Reason: "debit amount must be non-negative"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spentUsd+amount > m.hardCapUsd {
		return &domain.BudgetExceededError{
			HardCapUsd: m.hardCapUsd,
			SpentUsd:   m.spentUsd,
			Amount:     amount,
		}
	}
	m.spentUsd += amount
	return nil
}

// Spent returns the committed spend.
func (m *Manager) Spent() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spentUsd
}

// State returns a snapshot of the budget.
func (m *Manager) State() domain.Budget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Budget{HardCapUsd: m.hardCapUsd, SpentUsd: m.spentUsd}
}
