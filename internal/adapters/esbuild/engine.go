// Package esbuild drives an external bundler executable through the
// assemble/generate protocol, speaking line-delimited JSON over stdio.
package esbuild

import (
	"context"
	"os/exec"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Engine = (*Engine)(nil)

// DefaultBinary is the bundler executable resolved from PATH when no
// explicit path is configured.
const DefaultBinary = "calder-bundler"

// Engine implements ports.Engine by spawning one bundler process per
// assemble call. The process session is the build handle; it stays alive
// across generation passes and dies on Close.
type Engine struct {
	binary string
	logger ports.Logger
}

// NewEngine creates an Engine around the given bundler executable.
func NewEngine(binary string, logger ports.Logger) *Engine {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Engine{binary: binary, logger: logger}
}

// Assemble spawns a bundler process, sends the assemble request and
// consumes events until the module graph is complete. Warnings are fed to
// spec.OnWarn as they arrive; a non-nil return aborts assembly and tears
// the process down.
func (e *Engine) Assemble(ctx context.Context, spec ports.AssembleSpec) (domain.BuildHandle, error) {
	path, err := exec.LookPath(e.binary)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "bundler executable not found"), "binary", e.binary)
	}

	sess, err := startSession(ctx, path, e.logger)
	if err != nil {
		return nil, err
	}

	if err := sess.assemble(spec); err != nil {
		_ = sess.Close()
		return nil, err
	}
	return sess, nil
}

// Generate produces one in-memory bundle from the assembled graph.
func (e *Engine) Generate(ctx context.Context, handle domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error) {
	sess, err := e.session(handle)
	if err != nil {
		return nil, err
	}
	return sess.generate(ctx, target, false)
}

// Write produces one bundle and materializes its files below target.Dir.
func (e *Engine) Write(ctx context.Context, handle domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error) {
	sess, err := e.session(handle)
	if err != nil {
		return nil, err
	}
	return sess.generate(ctx, target, true)
}

func (e *Engine) session(handle domain.BuildHandle) (*session, error) {
	sess, ok := handle.(*session)
	if !ok {
		return nil, zerr.New("handle was not produced by this engine")
	}
	return sess, nil
}
