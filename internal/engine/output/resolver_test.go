package output_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports/mocks"
	"github.com/calder-build/calder/internal/engine/output"
)

func TestResolve_LibraryDisabledPassesOverrideThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	override := domain.SingleTarget(domain.OutputTarget{Format: domain.FormatES})

	resolved, err := output.Resolve(override, nil, logger)
	require.NoError(t, err)
	assert.Equal(t, override, resolved)

	// The zero value means "engine defaults" and passes through too.
	resolved, err = output.Resolve(domain.Targets{}, nil, logger)
	require.NoError(t, err)
	assert.True(t, resolved.IsZero())
}

func TestResolve_DefaultFormatPair(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	lib := &domain.LibrarySpec{Entry: "src/index.ts", Name: "MyLib"}

	resolved, err := output.Resolve(domain.Targets{}, lib, logger)
	require.NoError(t, err)

	targets, ok := resolved.Many()
	require.True(t, ok)
	require.Len(t, targets, 2)
	assert.Equal(t, domain.FormatES, targets[0].Format)
	assert.Equal(t, domain.FormatUMD, targets[1].Format)
}

func TestResolve_NameRequiredForUMD(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	lib := &domain.LibrarySpec{
		Entry:   "src/index.ts",
		Formats: []domain.ModuleFormat{domain.FormatUMD},
	}

	_, err := output.Resolve(domain.Targets{}, lib, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLibraryNameRequired))

	lib.Name = "MyLib"
	_, err = output.Resolve(domain.Targets{}, lib, logger)
	assert.NoError(t, err)
}

func TestResolve_NameNotRequiredForESAndCJS(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	lib := &domain.LibrarySpec{
		Entry:   "src/index.ts",
		Formats: []domain.ModuleFormat{domain.FormatES, domain.FormatCJS},
	}

	_, err := output.Resolve(domain.Targets{}, lib, logger)
	assert.NoError(t, err)
}

func TestResolve_FanOutPerFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	lib := &domain.LibrarySpec{
		Entry:   "src/index.ts",
		Name:    "MyLib",
		Formats: []domain.ModuleFormat{domain.FormatES, domain.FormatCJS, domain.FormatUMD},
	}

	resolved, err := output.Resolve(domain.Targets{}, lib, logger)
	require.NoError(t, err)

	targets, ok := resolved.Many()
	require.True(t, ok)
	require.Len(t, targets, 3)

	seen := map[domain.ModuleFormat]bool{}
	for _, target := range targets {
		seen[target.Format] = true
	}
	assert.Len(t, seen, 3)
}

func TestResolve_SingleOverrideCopiedPerFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	lib := &domain.LibrarySpec{
		Entry:   "src/index.ts",
		Name:    "MyLib",
		Formats: []domain.ModuleFormat{domain.FormatES, domain.FormatCJS},
	}
	override := domain.SingleTarget(domain.OutputTarget{
		Format:         domain.FormatIIFE,
		EntryFileNames: "custom.[hash].js",
	})

	resolved, err := output.Resolve(override, lib, logger)
	require.NoError(t, err)

	targets, ok := resolved.Many()
	require.True(t, ok)
	require.Len(t, targets, 2)
	for _, target := range targets {
		// Only format is replaced; every other field is inherited.
		assert.Equal(t, "custom.[hash].js", target.EntryFileNames)
	}
	assert.Equal(t, domain.FormatES, targets[0].Format)
	assert.Equal(t, domain.FormatCJS, targets[1].Format)
}

func TestResolve_ExplicitListWinsOverFormats(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	lib := &domain.LibrarySpec{
		Entry:   "src/index.ts",
		Name:    "MyLib",
		Formats: []domain.ModuleFormat{domain.FormatES},
	}
	override := domain.ManyTargets([]domain.OutputTarget{
		{Format: domain.FormatCJS},
		{Format: domain.FormatIIFE, Name: "Lib"},
	})

	resolved, err := output.Resolve(override, lib, logger)
	require.NoError(t, err)

	targets, ok := resolved.Many()
	require.True(t, ok)
	require.Len(t, targets, 2)
	assert.Equal(t, domain.FormatCJS, targets[0].Format)
}

func TestResolve_ExplicitListNoWarningWithoutFormats(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	// No Warn expectation: warning only fires on the precedence conflict.

	lib := &domain.LibrarySpec{Entry: "src/index.ts", Name: "MyLib"}
	override := domain.ManyTargets([]domain.OutputTarget{{Format: domain.FormatES}})

	_, err := output.Resolve(override, lib, logger)
	require.NoError(t, err)
}
