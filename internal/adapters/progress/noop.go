package progress

import (
	"context"

	"github.com/calder-build/calder/internal/core/ports"
)

// Noop is a reporter that records nothing. Used when the configured log
// level suppresses progress output.
type Noop struct{}

// StartPhase returns an inert phase.
func (Noop) StartPhase(context.Context, string) ports.Phase { return noopPhase{} }

// Close is a no-op.
func (Noop) Close() error { return nil }

type noopPhase struct{}

func (noopPhase) Log(string) {}
func (noopPhase) Done(error) {}
