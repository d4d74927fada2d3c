// Package app implements the production-build orchestrator for calder.
package app

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"github.com/calder-build/calder/internal/engine/options"
	"github.com/calder-build/calder/internal/engine/output"
	"github.com/calder-build/calder/internal/engine/pipeline"
	"github.com/calder-build/calder/internal/engine/tracker"
	"github.com/calder-build/calder/internal/engine/warnings"
	"go.trai.ch/zerr"
)

// defaultEntry is the conventional application entry at the project root.
const defaultEntry = "index.html"

// App coordinates one production build: configuration, plugin pipeline,
// the engine's assemble and generate phases, output-directory lifecycle
// and error surfacing.
type App struct {
	configLoader ports.ConfigLoader
	engine       ports.Engine
	fs           ports.FS
	logger       ports.Logger
	reporter     ports.Reporter
	tracker      *tracker.Tracker
}

// New creates an App instance.
func New(loader ports.ConfigLoader, engine ports.Engine, filesystem ports.FS, logger ports.Logger, reporter ports.Reporter, t *tracker.Tracker) *App {
	return &App{
		configLoader: loader,
		engine:       engine,
		fs:           filesystem,
		logger:       logger,
		reporter:     reporter,
		tracker:      t,
	}
}

// Build loads the project configuration rooted at cwd and runs one
// production build.
func (a *App) Build(ctx context.Context, cwd string) (domain.Results, error) {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return domain.Results{}, zerr.Wrap(err, "failed to load configuration")
	}
	return a.BuildWithConfig(ctx, cfg)
}

// BuildWithConfig runs one production build from an already-resolved
// configuration. Multiple calls may run concurrently in the same process;
// shared engine resources are torn down once the last one finishes.
func (a *App) BuildWithConfig(ctx context.Context, cfg *domain.ResolvedConfig) (domain.Results, error) {
	a.tracker.Acquire()
	defer a.tracker.Release()

	results, err := a.doBuild(ctx, cfg)
	if err != nil {
		a.logFailure(err)
		return domain.Results{}, err
	}
	return results, nil
}

func (a *App) doBuild(ctx context.Context, cfg *domain.ResolvedConfig) (domain.Results, error) {
	opts := options.Resolve(&cfg.Build)

	// Library validation happens before anything touches the engine: a
	// format set that cannot be generated must never reach assembly.
	targets, err := output.Resolve(opts.Rollup.Output, opts.Lib, a.logger)
	if err != nil {
		return domain.Results{}, err
	}

	input := resolveInput(cfg, opts)
	plugins := pipeline.Assemble(cfg, opts)

	classifier := warnings.NewClassifier(a.fs, cfg.AllowNodeBuiltins, cfg.OnWarn, func(w domain.WarningEvent) {
		a.logger.Warn(w.Message, "code", string(w.Code))
	})

	preserve := ports.PreserveExportsOnly
	if opts.Lib != nil {
		preserve = ports.PreserveStrict
	}

	handle, err := a.assemble(ctx, ports.AssembleSpec{
		Input:              input,
		Plugins:            plugins,
		External:           opts.Rollup.External,
		PreserveSignatures: preserve,
		OnWarn: func(w domain.WarningEvent) error {
			_, classifyErr := classifier.Classify(w)
			return classifyErr
		},
	})
	if err != nil {
		return domain.Results{}, err
	}
	a.tracker.Register(handle)

	if opts.Write {
		if err := a.prepareOutDir(cfg, opts); err != nil {
			return domain.Results{}, err
		}
	}

	finalized, err := a.finalizeTargets(cfg, opts, targets)
	if err != nil {
		return domain.Results{}, err
	}

	results, err := a.generateAll(ctx, handle, finalized, opts.Write)
	if err != nil {
		return domain.Results{}, err
	}

	// Result shape mirrors the target shape the user ended up with.
	if _, ok := targets.Many(); ok {
		return domain.ManyResults(results), nil
	}
	return domain.SingleResult(results[0]), nil
}

// assemble drives the engine's first phase under a progress vertex.
func (a *App) assemble(ctx context.Context, spec ports.AssembleSpec) (domain.BuildHandle, error) {
	phase := a.reporter.StartPhase(ctx, "assemble")
	phase.Log("building module graph from " + spec.Input)

	handle, err := a.engine.Assemble(ctx, spec)
	phase.Done(err)
	if err != nil {
		return nil, zerr.Wrap(err, "assemble phase failed")
	}
	return handle, nil
}

// resolveInput determines the entry: the library entry in library mode,
// else the user's explicit engine input, else the conventional HTML entry
// at the project root.
func resolveInput(cfg *domain.ResolvedConfig, opts domain.ResolvedBuildOptions) string {
	if opts.Lib != nil {
		return filepath.Join(cfg.Root, opts.Lib.Entry)
	}
	if opts.Rollup.Input != "" {
		return filepath.Join(cfg.Root, opts.Rollup.Input)
	}
	return filepath.Join(cfg.Root, defaultEntry)
}

// prepareOutDir clears stale output and copies static assets in, before
// any generation pass so generated files can overwrite colliding names.
func (a *App) prepareOutDir(cfg *domain.ResolvedConfig, opts domain.ResolvedBuildOptions) error {
	outDir := filepath.Join(cfg.Root, opts.OutDir)
	if err := a.fs.EmptyDir(outDir); err != nil {
		return zerr.Wrap(err, "failed to prepare output directory")
	}

	publicDir := filepath.Join(cfg.Root, cfg.PublicDir)
	if a.fs.DirExists(publicDir) {
		if err := a.fs.CopyDir(publicDir, outDir); err != nil {
			return zerr.Wrap(err, "failed to copy static assets")
		}
	}
	return nil
}

// finalizeTargets fills each target's empty fields with the mode-specific
// naming defaults and the forced compatibility flags. User-specified
// fields always win.
func (a *App) finalizeTargets(cfg *domain.ResolvedConfig, opts domain.ResolvedBuildOptions, targets domain.Targets) ([]domain.OutputTarget, error) {
	list := targets.List()

	entryStem := ""
	if opts.Lib != nil {
		stem, err := a.libraryFileStem(cfg.Root, opts.Lib)
		if err != nil {
			return nil, err
		}
		entryStem = stem
	}

	outDir := filepath.Join(cfg.Root, opts.OutDir)
	for i := range list {
		t := &list[i]
		t.Dir = outDir
		if t.Sourcemap == domain.SourcemapOff {
			t.Sourcemap = opts.Sourcemap
		}
		// The module-tagging symbol on CommonJS-interop chunks requires
		// named export mode, regardless of user configuration.
		t.Exports = "named"

		if opts.Lib != nil {
			a.applyLibraryNaming(t, opts.Lib, entryStem)
		} else {
			applyAppNaming(t, opts.AssetsDir)
		}
	}
	return list, nil
}

// libraryFileStem is the package name from the nearest manifest, falling
// back to the entry module's base name when no manifest names the package.
func (a *App) libraryFileStem(root string, lib *domain.LibrarySpec) (string, error) {
	manifest, err := a.fs.NearestManifest(root)
	if err != nil {
		return "", zerr.Wrap(err, "failed to read package manifest for library file naming")
	}
	if manifest != nil && manifest.Name != "" {
		return manifest.Name, nil
	}
	entry := filepath.Base(lib.Entry)
	return strings.TrimSuffix(entry, filepath.Ext(entry)), nil
}

func (a *App) applyLibraryNaming(t *domain.OutputTarget, lib *domain.LibrarySpec, stem string) {
	if t.Name == "" {
		t.Name = lib.Name
	}
	if t.EntryFileNames == "" {
		t.EntryFileNames = fmt.Sprintf("%s.%s.js", stem, t.Format)
	}
	if t.ChunkFileNames == "" {
		t.ChunkFileNames = "[name].js"
	}
	if t.AssetFileNames == "" {
		t.AssetFileNames = "[name].[ext]"
	}
}

func applyAppNaming(t *domain.OutputTarget, assetsDir string) {
	if t.EntryFileNames == "" {
		t.EntryFileNames = path.Join(assetsDir, "[name].[hash].js")
	}
	if t.ChunkFileNames == "" {
		t.ChunkFileNames = path.Join(assetsDir, "[name].[hash].js")
	}
	if t.AssetFileNames == "" {
		t.AssetFileNames = path.Join(assetsDir, "[name].[hash].[ext]")
	}
}

// generateAll runs one generation pass per target. Multiple targets fan
// out concurrently and the build waits for all of them; any one failure
// fails the whole build.
func (a *App) generateAll(ctx context.Context, handle domain.BuildHandle, targets []domain.OutputTarget, write bool) ([]domain.BuildResult, error) {
	generate := a.engine.Generate
	if write {
		generate = a.engine.Write
	}

	results := make([]domain.BuildResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			phase := a.reporter.StartPhase(gctx, phaseName(target))
			res, err := generate(gctx, handle, target)
			phase.Done(err)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "generate phase failed"), "format", string(target.Format))
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func phaseName(target domain.OutputTarget) string {
	if target.Format == "" {
		return "generate"
	}
	return "generate " + string(target.Format)
}

// logFailure surfaces a build failure with the best available context
// before it propagates to the caller. Diagnostics are pattern-matched off
// the structured error variant, never duck-typed.
func (a *App) logFailure(err error) {
	args := []any{"error", err}

	var buildErr *domain.BuildError
	if errors.As(err, &buildErr) {
		if buildErr.Plugin != "" {
			args = append(args, "plugin", buildErr.Plugin)
		}
		if buildErr.ID != "" {
			args = append(args, "file", buildErr.ID)
		}
		if buildErr.Loc != nil {
			args = append(args, "loc", fmt.Sprintf("%s:%d:%d", buildErr.Loc.File, buildErr.Loc.Line, buildErr.Loc.Column))
		}
		if buildErr.Frame != "" {
			args = append(args, "frame", buildErr.Frame)
		}
	}

	a.logger.Error("build failed", args...)
}
