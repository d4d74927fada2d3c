// Package progress provides the progrock implementation of the build
// progress reporter.
package progress

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"github.com/calder-build/calder/internal/core/ports"
)

var _ ports.Reporter = (*Recorder)(nil)

// Recorder implements ports.Reporter using the progrock library: one
// vertex per build phase.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// StartPhase begins recording a named phase.
func (r *Recorder) StartPhase(_ context.Context, name string) ports.Phase {
	d := digest.FromString(name)
	return &phase{vertex: r.rec.Vertex(d, name)}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// phase wraps one *progrock.VertexRecorder.
type phase struct {
	vertex *progrock.VertexRecorder
}

// Log attaches a progress message to the phase.
func (p *phase) Log(msg string) {
	_, _ = p.vertex.Stdout().Write([]byte(msg + "\n"))
}

// Done marks the phase as finished, successfully or with an error.
func (p *phase) Done(err error) {
	p.vertex.Done(err)
}
