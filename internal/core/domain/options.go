// Package domain contains the core domain models for the production build:
// build options, output targets, warning events and build results.
package domain

// SourcemapMode controls source map emission for generated bundles.
type SourcemapMode string

const (
	// SourcemapOff disables source map generation.
	SourcemapOff SourcemapMode = ""
	// SourcemapLinked emits a separate .map file referenced by the bundle.
	SourcemapLinked SourcemapMode = "linked"
	// SourcemapInline appends the source map as a data URI to the bundle.
	SourcemapInline SourcemapMode = "inline"
	// SourcemapHidden emits a .map file without referencing it from the bundle.
	SourcemapHidden SourcemapMode = "hidden"
)

// MinifyMode selects the minifier applied to generated bundles.
type MinifyMode string

const (
	// MinifyOff disables minification.
	MinifyOff MinifyMode = ""
	// MinifyEsbuild minifies via the lowering transform's own minifier.
	MinifyEsbuild MinifyMode = "esbuild"
	// MinifyTerser minifies via a dedicated terser pass.
	MinifyTerser MinifyMode = "terser"
)

// Plugin is one opaque plugin instance passed to the bundling engine.
// The engine interprets Name and Options; this core only orders them.
type Plugin struct {
	Name    string
	Options map[string]any
}

// RollupOptions are passthrough options handed to the bundling engine
// unchanged, except for Plugins (composed into the pipeline) and Output
// (resolved into concrete targets).
type RollupOptions struct {
	Input    string
	External []string
	Plugins  []Plugin
	Output   Targets
}

// RawBuildOptions are the user-supplied build options. Every field is
// optional; pointer fields distinguish "absent" from "present but zero",
// which matters because a present field always wins over the default.
type RawBuildOptions struct {
	Base              *string
	OutDir            *string
	AssetsDir         *string
	AssetsInlineLimit *int
	CSSCodeSplit      *bool
	Sourcemap         *SourcemapMode
	Minify            *MinifyMode
	TerserOptions     map[string]any
	Rollup            RollupOptions
	Write             *bool
	Manifest          *bool
	Lib               *LibrarySpec
}

// ResolvedBuildOptions are the fully-populated build options for one build
// invocation. Resolved once, immutable thereafter.
//
// Invariants: Base ends with a path separator; Minify is never a textual
// "false"; Lib is either nil (disabled) or fully populated.
type ResolvedBuildOptions struct {
	Base              string
	OutDir            string
	AssetsDir         string
	AssetsInlineLimit int
	CSSCodeSplit      bool
	Sourcemap         SourcemapMode
	Minify            MinifyMode
	TerserOptions     map[string]any
	Rollup            RollupOptions
	Write             bool
	Manifest          bool
	Lib               *LibrarySpec
}
