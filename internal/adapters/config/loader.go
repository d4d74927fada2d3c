// Package config provides the project configuration loader for calder.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/calder-build/calder/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the conventional project file name.
const DefaultFilename = "calder.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Load reads the configuration for the project rooted at cwd. A missing
// project file yields an all-defaults configuration; the build options
// resolver supplies the rest.
func (l *FileConfigLoader) Load(cwd string) (*domain.ResolvedConfig, error) {
	filename := l.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	return Load(filepath.Join(cwd, filename), cwd)
}

// Load reads a project file from path and resolves it against root.
func Load(path, root string) (*domain.ResolvedConfig, error) {
	var file calderfile

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.Wrap(err, "failed to parse project file")
		}
	case errors.Is(err, fs.ErrNotExist):
		// No project file: everything defaults.
	default:
		return nil, zerr.Wrap(err, "failed to read project file")
	}

	return mapConfig(&file, root)
}

func mapConfig(file *calderfile, root string) (*domain.ResolvedConfig, error) {
	if file.Root != "" {
		if filepath.IsAbs(file.Root) {
			root = file.Root
		} else {
			root = filepath.Join(root, file.Root)
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project root")
	}

	level, err := parseLogLevel(file.LogLevel)
	if err != nil {
		return nil, err
	}

	publicDir := file.PublicDir
	if publicDir == "" {
		publicDir = "public"
	}

	build, err := mapBuild(file.Build)
	if err != nil {
		return nil, err
	}

	return &domain.ResolvedConfig{
		Root:              absRoot,
		PublicDir:         publicDir,
		LogLevel:          level,
		Build:             build,
		Plugins:           mapPlugins(file.Plugins),
		Define:            file.Define,
		AllowNodeBuiltins: file.AllowNodeBuiltins,
	}, nil
}

func parseLogLevel(raw string) (domain.LogLevel, error) {
	switch domain.LogLevel(raw) {
	case "", domain.LogInfo:
		return domain.LogInfo, nil
	case domain.LogWarn:
		return domain.LogWarn, nil
	case domain.LogSilent:
		return domain.LogSilent, nil
	default:
		return "", zerr.With(zerr.New("unknown log level"), "logLevel", raw)
	}
}

func mapBuild(dto *buildDTO) (domain.RawBuildOptions, error) {
	if dto == nil {
		return domain.RawBuildOptions{}, nil
	}

	raw := domain.RawBuildOptions{
		Base:              dto.Base,
		OutDir:            dto.OutDir,
		AssetsDir:         dto.AssetsDir,
		AssetsInlineLimit: dto.AssetsInlineLimit,
		CSSCodeSplit:      dto.CSSCodeSplit,
		TerserOptions:     dto.TerserOptions,
		Write:             dto.Write,
		Manifest:          dto.Manifest,
	}

	if dto.Sourcemap != nil {
		mode, err := parseSourcemap(*dto.Sourcemap)
		if err != nil {
			return domain.RawBuildOptions{}, err
		}
		raw.Sourcemap = &mode
	}
	if dto.Minify != nil {
		// Passed through textually; the options resolver owns the
		// "false" coercion.
		mode := domain.MinifyMode(*dto.Minify)
		raw.Minify = &mode
	}
	if dto.Lib != nil {
		lib, err := mapLib(dto.Lib)
		if err != nil {
			return domain.RawBuildOptions{}, err
		}
		raw.Lib = lib
	}
	if dto.Rollup != nil {
		rollup, err := mapRollup(dto.Rollup)
		if err != nil {
			return domain.RawBuildOptions{}, err
		}
		raw.Rollup = rollup
	}

	return raw, nil
}

func parseSourcemap(raw string) (domain.SourcemapMode, error) {
	switch raw {
	case "", "false":
		return domain.SourcemapOff, nil
	case "true", "linked":
		return domain.SourcemapLinked, nil
	case "inline":
		return domain.SourcemapInline, nil
	case "hidden":
		return domain.SourcemapHidden, nil
	default:
		return "", zerr.With(zerr.New("unknown sourcemap mode"), "sourcemap", raw)
	}
}

func mapLib(dto *libDTO) (*domain.LibrarySpec, error) {
	if dto.Entry == "" {
		return nil, zerr.New("build.lib.entry is required when library mode is enabled")
	}

	formats := make([]domain.ModuleFormat, 0, len(dto.Formats))
	for _, f := range dto.Formats {
		format := domain.ModuleFormat(f)
		switch format {
		case domain.FormatES, domain.FormatCJS, domain.FormatUMD, domain.FormatIIFE:
			formats = append(formats, format)
		default:
			return nil, zerr.With(zerr.New("unknown library format"), "format", f)
		}
	}

	return &domain.LibrarySpec{
		Entry:   dto.Entry,
		Name:    dto.Name,
		Formats: formats,
	}, nil
}

func mapRollup(dto *rollupDTO) (domain.RollupOptions, error) {
	rollup := domain.RollupOptions{
		Input:    dto.Input,
		External: dto.External,
		Plugins:  mapPlugins(dto.Plugins),
	}

	if dto.Output != nil {
		switch {
		case dto.Output.many != nil:
			targets := make([]domain.OutputTarget, len(dto.Output.many))
			for i, t := range dto.Output.many {
				target, err := mapTarget(t)
				if err != nil {
					return domain.RollupOptions{}, err
				}
				targets[i] = target
			}
			rollup.Output = domain.ManyTargets(targets)
		case dto.Output.single != nil:
			target, err := mapTarget(*dto.Output.single)
			if err != nil {
				return domain.RollupOptions{}, err
			}
			rollup.Output = domain.SingleTarget(target)
		}
	}

	return rollup, nil
}

func mapTarget(dto targetDTO) (domain.OutputTarget, error) {
	sourcemap, err := parseSourcemap(dto.Sourcemap)
	if err != nil {
		return domain.OutputTarget{}, err
	}
	return domain.OutputTarget{
		Format:         domain.ModuleFormat(dto.Format),
		EntryFileNames: dto.EntryFileNames,
		ChunkFileNames: dto.ChunkFileNames,
		AssetFileNames: dto.AssetFileNames,
		Name:           dto.Name,
		Sourcemap:      sourcemap,
	}, nil
}

func mapPlugins(dtos []pluginDTO) []domain.Plugin {
	if len(dtos) == 0 {
		return nil
	}
	plugins := make([]domain.Plugin, len(dtos))
	for i, p := range dtos {
		plugins[i] = domain.Plugin{Name: p.Name, Options: p.Options}
	}
	return plugins
}
