package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/calder-build/calder/internal/adapters/fs"
	"github.com/calder-build/calder/internal/adapters/logger"
	"github.com/calder-build/calder/internal/adapters/progress"
	"github.com/calder-build/calder/internal/app"
	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"github.com/calder-build/calder/internal/core/ports/mocks"
	"github.com/calder-build/calder/internal/engine/tracker"
)

type fakeHandle struct {
	closed atomic.Int32
}

func (h *fakeHandle) Close() error {
	h.closed.Add(1)
	return nil
}

func silentLogger() *logger.Logger {
	return logger.New(domain.LogSilent)
}

func newApp(engine ports.Engine, filesystem ports.FS, log ports.Logger) *app.App {
	return app.New(nil, engine, filesystem, log, progress.Noop{}, tracker.New(log))
}

func boolPtr(b bool) *bool { return &b }

func TestBuild_DefaultApplicationBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	root := t.TempDir()
	// A previous build's stale output and a static assets folder.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "stale.js"), []byte("old"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "public"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "public", "favicon.ico"), []byte("icon"), 0o644))

	handle := &fakeHandle{}
	var assembled ports.AssembleSpec
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec ports.AssembleSpec) (domain.BuildHandle, error) {
			assembled = spec
			return handle, nil
		})

	var written domain.OutputTarget
	engine.EXPECT().Write(gomock.Any(), handle, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error) {
			written = target
			return &domain.BuildResult{Outputs: []domain.BuildOutput{
				{Name: "assets/main.1a2b3c4d.js", Kind: domain.OutputEntry, Size: 120},
			}}, nil
		})

	a := newApp(engine, fs.New(), silentLogger())
	results, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      root,
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
	})
	require.NoError(t, err)

	// Entry defaults to the conventional HTML entry at the root.
	assert.Equal(t, filepath.Join(root, "index.html"), assembled.Input)
	assert.Equal(t, ports.PreserveExportsOnly, assembled.PreserveSignatures)

	// Stale output is gone, the static asset was copied in.
	assert.NoFileExists(t, filepath.Join(root, "dist", "stale.js"))
	assert.FileExists(t, filepath.Join(root, "dist", "favicon.ico"))

	// Application-mode naming templates with content hashes.
	assert.Equal(t, "assets/[name].[hash].js", written.EntryFileNames)
	assert.Equal(t, "assets/[name].[hash].js", written.ChunkFileNames)
	assert.Equal(t, "assets/[name].[hash].[ext]", written.AssetFileNames)
	assert.Equal(t, "named", written.Exports)
	assert.Equal(t, filepath.Join(root, "dist"), written.Dir)

	// No manifest plugin by default.
	for _, p := range assembled.Plugins {
		assert.NotEqual(t, "manifest", p.Name)
	}

	// Single target, single result.
	single, ok := results.Single()
	require.True(t, ok)
	assert.Len(t, single.Outputs, 1)

	// The lone build has finished, so the tracker tore the handle down.
	assert.Equal(t, int32(1), handle.closed.Load())
}

func TestBuild_LibraryFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name":"my-lib"}`), 0o644))

	handle := &fakeHandle{}
	var assembled ports.AssembleSpec
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec ports.AssembleSpec) (domain.BuildHandle, error) {
			assembled = spec
			return handle, nil
		})

	var mu sync.Mutex
	var entryNames []string
	engine.EXPECT().Write(gomock.Any(), handle, gomock.Any()).Times(3).
		DoAndReturn(func(_ context.Context, _ domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error) {
			mu.Lock()
			entryNames = append(entryNames, target.EntryFileNames)
			mu.Unlock()
			return &domain.BuildResult{}, nil
		})

	a := newApp(engine, fs.New(), silentLogger())
	results, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      root,
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
		Build: domain.RawBuildOptions{
			Lib: &domain.LibrarySpec{
				Entry:   "src/index.ts",
				Name:    "MyLib",
				Formats: []domain.ModuleFormat{domain.FormatES, domain.FormatCJS, domain.FormatUMD},
			},
		},
	})
	require.NoError(t, err)

	// Library entry and strict signature preservation.
	assert.Equal(t, filepath.Join(root, "src", "index.ts"), assembled.Input)
	assert.Equal(t, ports.PreserveStrict, assembled.PreserveSignatures)

	// One generation pass per format, named after the package manifest.
	sort.Strings(entryNames)
	assert.Equal(t, []string{"my-lib.cjs.js", "my-lib.es.js", "my-lib.umd.js"}, entryNames)

	many, ok := results.Many()
	require.True(t, ok)
	assert.Len(t, many, 3)
}

func TestBuild_LibraryStemFallsBackToEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	filesystem := mocks.NewMockFS(ctrl)

	handle := &fakeHandle{}
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(handle, nil)
	filesystem.EXPECT().NearestManifest(gomock.Any()).Return(nil, nil)

	var entryName string
	engine.EXPECT().Write(gomock.Any(), handle, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error) {
			entryName = target.EntryFileNames
			return &domain.BuildResult{}, nil
		})
	filesystem.EXPECT().EmptyDir(gomock.Any()).Return(nil)
	filesystem.EXPECT().DirExists(gomock.Any()).Return(false)

	a := newApp(engine, filesystem, silentLogger())
	_, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      "/proj",
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
		Build: domain.RawBuildOptions{
			Lib: &domain.LibrarySpec{
				Entry:   "src/widget.ts",
				Formats: []domain.ModuleFormat{domain.FormatES},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "widget.es.js", entryName)
}

func TestBuild_LibraryNameValidationPreemptsAssembly(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	// No Assemble expectation: the engine must never be touched.

	a := newApp(engine, fs.New(), silentLogger())
	_, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      t.TempDir(),
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
		Build: domain.RawBuildOptions{
			Lib: &domain.LibrarySpec{
				Entry:   "src/index.ts",
				Formats: []domain.ModuleFormat{domain.FormatUMD},
			},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLibraryNameRequired))
}

func TestBuild_WriteDisabledGeneratesInMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	filesystem := mocks.NewMockFS(ctrl)
	// No EmptyDir/CopyDir expectations: write=false must not touch disk.

	handle := &fakeHandle{}
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(handle, nil)
	engine.EXPECT().Generate(gomock.Any(), handle, gomock.Any()).Return(&domain.BuildResult{}, nil)

	a := newApp(engine, filesystem, silentLogger())
	_, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      "/proj",
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
		Build:     domain.RawBuildOptions{Write: boolPtr(false)},
	})
	require.NoError(t, err)
}

func TestBuild_OutDirPreparedBeforeGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	filesystem := mocks.NewMockFS(ctrl)

	handle := &fakeHandle{}
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(handle, nil)

	emptied := filesystem.EXPECT().EmptyDir(filepath.Join("/proj", "dist")).Return(nil)
	existed := filesystem.EXPECT().DirExists(filepath.Join("/proj", "public")).Return(true).After(emptied)
	copied := filesystem.EXPECT().CopyDir(filepath.Join("/proj", "public"), filepath.Join("/proj", "dist")).Return(nil).After(existed)
	engine.EXPECT().Write(gomock.Any(), handle, gomock.Any()).Return(&domain.BuildResult{}, nil).After(copied)

	a := newApp(engine, filesystem, silentLogger())
	_, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      "/proj",
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
	})
	require.NoError(t, err)
}

func TestBuild_AssembleFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	log := mocks.NewMockLogger(ctrl)

	bang := &domain.BuildError{
		Err:    errors.New("unexpected token"),
		Plugin: "esbuild",
		ID:     "/proj/src/main.ts",
		Loc:    &domain.SourceLocation{File: "/proj/src/main.ts", Line: 3, Column: 7},
	}
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil, bang)

	log.EXPECT().Error("build failed", gomock.Any()).Do(func(_ string, args ...any) {
		joined := ""
		for _, a := range args {
			if s, ok := a.(string); ok {
				joined += s + " "
			}
		}
		assert.Contains(t, joined, "esbuild")
		assert.Contains(t, joined, "3:7")
	})

	a := newApp(engine, fs.New(), log)
	_, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      t.TempDir(),
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
	})
	require.Error(t, err)

	var buildErr *domain.BuildError
	assert.True(t, errors.As(err, &buildErr))
}

func TestBuild_WarningEscalationAbortsAssembly(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec ports.AssembleSpec) (domain.BuildHandle, error) {
			// The engine feeds each warning to the callback; a non-nil
			// return becomes the assemble error.
			if err := spec.OnWarn(domain.WarningEvent{
				Code: domain.WarnUnresolvedImport,
				ID:   "fs",
			}); err != nil {
				return nil, err
			}
			return &fakeHandle{}, nil
		})

	a := newApp(engine, fs.New(), silentLogger())
	_, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      t.TempDir(),
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnresolvedImport))
	assert.Contains(t, err.Error(), `"fs"`)
}

func TestBuild_OneTargetFailureFailsWholeBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	root := t.TempDir()
	handle := &fakeHandle{}
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(handle, nil)

	engine.EXPECT().Write(gomock.Any(), handle, gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, _ domain.BuildHandle, target domain.OutputTarget) (*domain.BuildResult, error) {
			if target.Format == domain.FormatCJS {
				return nil, errors.New("chunk too large")
			}
			return &domain.BuildResult{}, nil
		})

	a := newApp(engine, fs.New(), silentLogger())
	_, err := a.BuildWithConfig(context.Background(), &domain.ResolvedConfig{
		Root:      root,
		PublicDir: "public",
		LogLevel:  domain.LogSilent,
		Build: domain.RawBuildOptions{
			Lib: &domain.LibrarySpec{
				Entry:   "src/index.ts",
				Formats: []domain.ModuleFormat{domain.FormatES, domain.FormatCJS},
			},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk too large")
}

func TestBuild_ConcurrentBuildsShareTeardown(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	handles := []*fakeHandle{{}, {}}
	var next atomic.Int32
	firstAssembled := make(chan struct{})
	secondAssembled := make(chan struct{})
	secondMayFinish := make(chan struct{})

	// The second build is not spawned until the first has assembled, so
	// handle assignment is deterministic: handles[0] belongs to the first
	// build, handles[1] to the second.
	engine.EXPECT().Assemble(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(context.Context, ports.AssembleSpec) (domain.BuildHandle, error) {
			n := next.Add(1)
			if n == 1 {
				close(firstAssembled)
			} else {
				close(secondAssembled)
			}
			return handles[n-1], nil
		})
	engine.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, h domain.BuildHandle, _ domain.OutputTarget) (*domain.BuildResult, error) {
			if h == handles[0] {
				// Hold the first build open until the second has started,
				// so both builds overlap.
				<-secondAssembled
			} else {
				<-secondMayFinish
			}
			return &domain.BuildResult{}, nil
		})

	log := silentLogger()
	a := app.New(nil, engine, fs.New(), log, progress.Noop{}, tracker.New(log))
	cfg := func() *domain.ResolvedConfig {
		return &domain.ResolvedConfig{
			Root:      t.TempDir(),
			PublicDir: "public",
			LogLevel:  domain.LogSilent,
			Build:     domain.RawBuildOptions{Write: boolPtr(false)},
		}
	}

	firstDone := make(chan error, 1)
	secondDone := make(chan error, 1)
	go func() {
		_, err := a.BuildWithConfig(context.Background(), cfg())
		firstDone <- err
	}()
	<-firstAssembled
	go func() {
		_, err := a.BuildWithConfig(context.Background(), cfg())
		secondDone <- err
	}()

	// The first build finishes while the second is still generating.
	// Handles stay open until the last in-flight build releases.
	require.NoError(t, <-firstDone)
	assert.Equal(t, int32(0), handles[0].closed.Load())
	assert.Equal(t, int32(0), handles[1].closed.Load())

	close(secondMayFinish)
	require.NoError(t, <-secondDone)

	assert.Equal(t, int32(1), handles[0].closed.Load())
	assert.Equal(t, int32(1), handles[1].closed.Load())
}
