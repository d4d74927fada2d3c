package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrLibraryNameRequired is returned when a library build requests a
	// format that exposes a global but no name is configured.
	ErrLibraryNameRequired = zerr.New("library formats umd and iife require a name, set build.lib.name")

	// ErrUnresolvedImport is returned when the engine reports an import it
	// could not resolve. Always fatal: the bundle would be corrupt.
	ErrUnresolvedImport = zerr.New("unresolved import")

	// ErrEngineClosed is returned when a generation phase is invoked on a
	// handle that has already been torn down.
	ErrEngineClosed = zerr.New("engine handle already closed")
)

// BuildError is a build failure enriched with whatever diagnostics the
// engine attached. The logging boundary pattern-matches on it with
// errors.As; all fields except Err are optional.
type BuildError struct {
	Err    error
	Plugin string
	ID     string
	Loc    *SourceLocation
	Frame  string
}

func (e *BuildError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("[plugin %s] %v", e.Plugin, e.Err)
	}
	return e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
