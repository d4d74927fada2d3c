package ports

import "context"

// Reporter records build progress, one phase per assemble or generation
// pass.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// StartPhase begins recording a named phase.
	StartPhase(ctx context.Context, name string) Phase

	// Close flushes and tears down the recording session.
	Close() error
}

// Phase is one in-flight recorded phase.
type Phase interface {
	// Log attaches a progress message to the phase.
	Log(msg string)

	// Done completes the phase, successfully or with an error.
	Done(err error)
}
