// Package pipeline assembles the ordered plugin list passed into the
// bundling engine's assemble phase.
package pipeline

import (
	"github.com/calder-build/calder/internal/core/domain"
)

// Assemble composes user plugins with the built-in policy plugins. The
// order is a correctness invariant: the engine applies transform hooks in
// sequence, and later policy plugins assume the earlier ones already ran.
func Assemble(cfg *domain.ResolvedConfig, opts domain.ResolvedBuildOptions) []domain.Plugin {
	var plugins []domain.Plugin

	// User plugins run first so they can pre-process before internal
	// policy does.
	plugins = append(plugins, cfg.Plugins...)
	plugins = append(plugins, opts.Rollup.Plugins...)

	plugins = append(plugins,
		commonJS(),
		htmlEntry(),
		define(cfg),
		dynamicImportVars(),
		esbuildTransform(opts),
	)

	// Skip the dedicated terser pass when the lowering transform's own
	// minifier is selected, to avoid minifying twice.
	if opts.Minify == domain.MinifyTerser {
		plugins = append(plugins, terser(opts))
	}

	if opts.Manifest {
		plugins = append(plugins, manifest())
	}

	if cfg.LogLevel == domain.LogInfo || cfg.LogLevel == "" {
		plugins = append(plugins, reporter())
	}

	return plugins
}

// commonJS converts CommonJS dependency modules to ES modules. Scoped to
// the dependency tree and the two CommonJS-flavored extensions.
func commonJS() domain.Plugin {
	return domain.Plugin{
		Name: "commonjs",
		Options: map[string]any{
			"include":    []string{"/node_modules/"},
			"extensions": []string{".js", ".cjs"},
		},
	}
}

func htmlEntry() domain.Plugin {
	return domain.Plugin{Name: "build-html"}
}

// define replaces configured global constants at build time.
func define(cfg *domain.ResolvedConfig) domain.Plugin {
	replacements := make(map[string]any, len(cfg.Define))
	for k, v := range cfg.Define {
		replacements[k] = v
	}
	return domain.Plugin{Name: "define", Options: replacements}
}

// dynamicImportVars supports dynamic imports with variable expressions,
// warning rather than failing on expressions it cannot analyze.
func dynamicImportVars() domain.Plugin {
	return domain.Plugin{
		Name: "dynamic-import-vars",
		Options: map[string]any{
			"warnOnError": true,
			"exclude":     []string{"/node_modules/"},
		},
	}
}

func esbuildTransform(opts domain.ResolvedBuildOptions) domain.Plugin {
	return domain.Plugin{
		Name: "esbuild",
		Options: map[string]any{
			"minify":    opts.Minify == domain.MinifyEsbuild,
			"sourcemap": opts.Sourcemap != domain.SourcemapOff,
		},
	}
}

func terser(opts domain.ResolvedBuildOptions) domain.Plugin {
	return domain.Plugin{
		Name:    "terser",
		Options: opts.TerserOptions,
	}
}

func manifest() domain.Plugin {
	return domain.Plugin{Name: "manifest"}
}

func reporter() domain.Plugin {
	return domain.Plugin{Name: "reporter"}
}
