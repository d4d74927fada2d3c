// Package tracker implements the parallel-build reference count that
// governs teardown of shared engine resources.
package tracker

import (
	"sync"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
)

// Tracker counts build invocations in flight and holds every assembled
// engine handle opened by them. Handles may share underlying engine
// caches, so closing one while a sibling build still runs would corrupt
// that sibling; teardown waits until the count reaches zero.
//
// A single mutex serializes the count/registry pair against interleaved
// concurrent builds.
type Tracker struct {
	logger ports.Logger

	mu      sync.Mutex
	count   int
	handles []domain.BuildHandle
}

// New creates an empty Tracker.
func New(logger ports.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Acquire marks one build invocation in flight. Call at the very start of
// a public build call, paired with a deferred Release.
func (t *Tracker) Acquire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
}

// Register records an assembled handle for deferred teardown.
func (t *Tracker) Register(h domain.BuildHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handles = append(t.handles, h)
}

// Release marks one build invocation finished. The last release closes
// every registered handle and clears the registry. Close failures are
// logged and teardown continues; the build outcome is already decided.
func (t *Tracker) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count--
	if t.count > 0 {
		return
	}

	for _, h := range t.handles {
		if err := h.Close(); err != nil {
			t.logger.Warn("failed to close engine handle", "error", err)
		}
	}
	t.handles = nil
}

// InFlight reports the current reference count. Test hook.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
