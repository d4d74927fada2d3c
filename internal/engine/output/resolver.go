// Package output resolves the final set of output targets for a build,
// applying library-mode format fan-out and validation.
package output

import (
	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"go.trai.ch/zerr"
)

// defaultLibFormats is the format pair produced when a library spec does
// not request explicit formats.
var defaultLibFormats = []domain.ModuleFormat{domain.FormatES, domain.FormatUMD}

// Resolve produces the concrete output-target set from the user's output
// override and the library spec. With library mode disabled the override
// passes through untouched, including the zero value meaning "engine
// defaults".
func Resolve(override domain.Targets, lib *domain.LibrarySpec, logger ports.Logger) (domain.Targets, error) {
	if lib == nil {
		return override, nil
	}

	formats := lib.Formats
	if len(formats) == 0 {
		formats = defaultLibFormats
	}

	if err := validate(formats, lib); err != nil {
		return domain.Targets{}, err
	}

	// An explicit target list means the user has taken full manual
	// control; requested formats lose the precedence conflict.
	if many, ok := override.Many(); ok {
		if len(lib.Formats) > 0 {
			logger.Warn("build.lib.formats is ignored because rollupOptions.output specifies an explicit list of targets")
		}
		return domain.ManyTargets(many), nil
	}

	base := domain.OutputTarget{}
	if single, ok := override.Single(); ok {
		base = single
	}

	targets := make([]domain.OutputTarget, len(formats))
	for i, format := range formats {
		t := base
		t.Format = format
		targets[i] = t
	}
	return domain.ManyTargets(targets), nil
}

// validate rejects format sets that expose a global without a name to
// expose it under. This is a configuration error, not a warning: umd and
// iife output cannot be generated anonymously.
func validate(formats []domain.ModuleFormat, lib *domain.LibrarySpec) error {
	if lib.Name != "" {
		return nil
	}
	for _, f := range formats {
		if f.RequiresName() {
			err := zerr.Wrap(domain.ErrLibraryNameRequired, "cannot generate library output")
			return zerr.With(err, "format", string(f))
		}
	}
	return nil
}
