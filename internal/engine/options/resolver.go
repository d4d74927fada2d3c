// Package options resolves user-supplied build options against the
// defaults for a production build.
package options

import (
	"strings"

	"github.com/calder-build/calder/internal/core/domain"
)

// Defaults for a production build. Kept in one place so Resolve and the
// tests agree on them.
const (
	DefaultBase              = "/"
	DefaultOutDir            = "dist"
	DefaultAssetsDir         = "assets"
	DefaultAssetsInlineLimit = 4096
)

// Resolve merges raw options over the defaults and normalizes derived
// fields. Pure: no I/O, no failure path. Invalid combinations that need
// library-mode context (formats requiring a name) are deferred to output
// resolution.
func Resolve(raw *domain.RawBuildOptions) domain.ResolvedBuildOptions {
	resolved := domain.ResolvedBuildOptions{
		Base:              DefaultBase,
		OutDir:            DefaultOutDir,
		AssetsDir:         DefaultAssetsDir,
		AssetsInlineLimit: DefaultAssetsInlineLimit,
		CSSCodeSplit:      true,
		Sourcemap:         domain.SourcemapOff,
		Minify:            domain.MinifyEsbuild,
		TerserOptions:     map[string]any{},
		Write:             true,
		Manifest:          false,
		Lib:               nil,
	}
	if raw != nil {
		overlay(&resolved, raw)
	}

	resolved.Base = normalizeBase(resolved.Base)

	// Untyped option sources (JSON, yaml) commonly hand us the literal
	// string "false" for minify. Coerce instead of selecting a minifier
	// named "false".
	if strings.EqualFold(string(resolved.Minify), "false") {
		resolved.Minify = domain.MinifyOff
	}

	return resolved
}

// overlay copies every present raw field onto the resolved record. A
// present field wins even when it is falsy or empty; an absent (nil)
// field keeps the default.
func overlay(resolved *domain.ResolvedBuildOptions, raw *domain.RawBuildOptions) {
	if raw.Base != nil {
		resolved.Base = *raw.Base
	}
	if raw.OutDir != nil {
		resolved.OutDir = *raw.OutDir
	}
	if raw.AssetsDir != nil {
		resolved.AssetsDir = *raw.AssetsDir
	}
	if raw.AssetsInlineLimit != nil {
		resolved.AssetsInlineLimit = *raw.AssetsInlineLimit
	}
	if raw.CSSCodeSplit != nil {
		resolved.CSSCodeSplit = *raw.CSSCodeSplit
	}
	if raw.Sourcemap != nil {
		resolved.Sourcemap = *raw.Sourcemap
	}
	if raw.Minify != nil {
		resolved.Minify = *raw.Minify
	}
	if raw.TerserOptions != nil {
		resolved.TerserOptions = raw.TerserOptions
	}
	if raw.Write != nil {
		resolved.Write = *raw.Write
	}
	if raw.Manifest != nil {
		resolved.Manifest = *raw.Manifest
	}
	if raw.Lib != nil {
		lib := *raw.Lib
		resolved.Lib = &lib
	}
	resolved.Rollup = raw.Rollup
}

// normalizeBase guarantees the base is always joinable: the original
// trailing character is preserved and exactly one separator follows it.
func normalizeBase(base string) string {
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}
