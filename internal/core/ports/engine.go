// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/calder-build/calder/internal/core/domain"
)

// PreserveMode is the export-signature preservation policy for the
// assemble phase.
type PreserveMode string

const (
	// PreserveStrict keeps entry export signatures exactly. Library mode.
	PreserveStrict PreserveMode = "strict"
	// PreserveExportsOnly keeps exports but allows facade removal.
	// Application mode.
	PreserveExportsOnly PreserveMode = "exports-only"
)

// AssembleSpec is the input to the engine's assemble phase.
type AssembleSpec struct {
	// Input is the entry module or HTML entry file.
	Input string
	// Plugins is the ordered plugin pipeline. Order is a correctness
	// invariant: the engine applies transform hooks in sequence.
	Plugins            []domain.Plugin
	External           []string
	PreserveSignatures PreserveMode
	// OnWarn is invoked synchronously for each warning the engine raises
	// during assembly. A non-nil return aborts the assemble phase with
	// that error.
	OnWarn func(domain.WarningEvent) error
}

// Engine is the external bundling engine, reduced to the two-phase
// assemble/generate protocol this core drives.
//
//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type Engine interface {
	// Assemble builds the module graph and returns an open handle.
	Assemble(ctx context.Context, spec AssembleSpec) (domain.BuildHandle, error)

	// Generate produces one in-memory bundle from an assembled handle.
	Generate(ctx context.Context, handle domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error)

	// Write produces one bundle and writes it below target.Dir.
	Write(ctx context.Context, handle domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error)
}
