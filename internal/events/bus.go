// Package events provides the in-process publish/subscribe bridge between
// the orchestrator and external observers (SSE stream, test harness,
// logger).
package events

import (
	"sync"

	"github.com/draftloom/orchestrator/internal/domain"
)

// subscriber channels are buffered; a full channel drops the event rather
// than blocking run progress.
const subscriberBuffer = 64

// Bus fans out run step events to per-run and firehose subscribers.
// Delivery is at-most-once, in publish order, with no replay buffer: a
// late or reconnecting subscriber recovers via a one-shot status fetch.
type Bus struct {
	mu       sync.Mutex
	subs     map[string][]chan domain.StepEvent // keyed by run id
	firehose []chan domain.StepEvent
	done     map[string]bool // runs whose event sequence has terminated
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]chan domain.StepEvent),
		done: make(map[string]bool),
	}
}

// Subscribe attaches to one run's event stream. The channel closes after
// the run's terminal event; subscribing to an already-terminated run
// yields an immediately closed channel. The returned cancel function
// detaches early.
func (b *Bus) Subscribe(runID string) (<-chan domain.StepEvent, func()) {
	ch := make(chan domain.StepEvent, subscriberBuffer)

	b.mu.Lock()
	if b.done[runID] {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[runID] = append(b.subs[runID], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs[runID] {
			if sub == ch {
				b.subs[runID] = append(b.subs[runID][:i], b.subs[runID][i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// SubscribeAll attaches to every run's events. The channel never closes on
// its own; call cancel to detach.
func (b *Bus) SubscribeAll() (<-chan domain.StepEvent, func()) {
	ch := make(chan domain.StepEvent, subscriberBuffer)

	b.mu.Lock()
	b.firehose = append(b.firehose, ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.firehose {
			if sub == ch {
				b.firehose = append(b.firehose[:i], b.firehose[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish delivers the event to all attached subscribers without ever
// blocking the publisher. A terminal event closes the run's topic.
func (b *Bus) Publish(evt domain.StepEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done[evt.RunID] {
		return
	}

	for _, ch := range b.subs[evt.RunID] {
		select {
		case ch <- evt:
		default:
		}
	}
	for _, ch := range b.firehose {
		select {
		case ch <- evt:
		default:
		}
	}

	if evt.Type.IsTerminal() {
		b.closeRunLocked(evt.RunID)
	}
}

// CloseRun terminates a run's topic without a terminal event. Used on
// cancellation to halt further emission.
func (b *Bus) CloseRun(runID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeRunLocked(runID)
}

func (b *Bus) closeRunLocked(runID string) {
	if b.done[runID] {
		return
	}
	b.done[runID] = true
	for _, ch := range b.subs[runID] {
		close(ch)
	}
	delete(b.subs, runID)
}
