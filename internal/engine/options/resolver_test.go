package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/engine/options"
)

func TestResolve_Defaults(t *testing.T) {
	resolved := options.Resolve(nil)

	assert.Equal(t, "/", resolved.Base)
	assert.Equal(t, "dist", resolved.OutDir)
	assert.Equal(t, "assets", resolved.AssetsDir)
	assert.Equal(t, 4096, resolved.AssetsInlineLimit)
	assert.True(t, resolved.CSSCodeSplit)
	assert.Equal(t, domain.SourcemapOff, resolved.Sourcemap)
	assert.Equal(t, domain.MinifyEsbuild, resolved.Minify)
	assert.True(t, resolved.Write)
	assert.False(t, resolved.Manifest)
	assert.Nil(t, resolved.Lib)
}

func TestResolve_Idempotent(t *testing.T) {
	outDir := "build"
	raw := &domain.RawBuildOptions{OutDir: &outDir}

	first := options.Resolve(raw)
	second := options.Resolve(raw)

	assert.Equal(t, first, second)
}

func TestResolve_PresentFalsyFieldWins(t *testing.T) {
	// A present field replaces the default even when it is falsy.
	codeSplit := false
	write := false
	raw := &domain.RawBuildOptions{
		CSSCodeSplit: &codeSplit,
		Write:        &write,
	}

	resolved := options.Resolve(raw)

	assert.False(t, resolved.CSSCodeSplit)
	assert.False(t, resolved.Write)
}

func TestResolve_BaseNormalization(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "no trailing separator", base: "/app", want: "/app/"},
		{name: "trailing separator kept", base: "/app/", want: "/app/"},
		{name: "root unchanged", base: "/", want: "/"},
		{name: "relative base", base: "./sub", want: "./sub/"},
		{name: "url base", base: "https://cdn.example.com/assets", want: "https://cdn.example.com/assets/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := options.Resolve(&domain.RawBuildOptions{Base: &tt.base})
			assert.Equal(t, tt.want, resolved.Base)
		})
	}
}

func TestResolve_MinifyFalseStringCoerced(t *testing.T) {
	falseLiteral := domain.MinifyMode("false")
	resolved := options.Resolve(&domain.RawBuildOptions{Minify: &falseLiteral})

	assert.Equal(t, domain.MinifyOff, resolved.Minify)
}

func TestResolve_LibCopied(t *testing.T) {
	raw := &domain.RawBuildOptions{
		Lib: &domain.LibrarySpec{Entry: "src/index.ts", Name: "MyLib"},
	}

	resolved := options.Resolve(raw)

	require.NotNil(t, resolved.Lib)
	assert.Equal(t, "src/index.ts", resolved.Lib.Entry)

	// The resolved options own their own copy of the library settings.
	raw.Lib.Name = "Mutated"
	assert.Equal(t, "MyLib", resolved.Lib.Name)
}
