package config

import (
	"gopkg.in/yaml.v3"
)

// calderfile represents the structure of the calder.yaml project file.
type calderfile struct {
	Root              string            `yaml:"root"`
	PublicDir         string            `yaml:"publicDir"`
	LogLevel          string            `yaml:"logLevel"`
	Plugins           []pluginDTO       `yaml:"plugins"`
	AllowNodeBuiltins []string          `yaml:"allowNodeBuiltins"`
	Build             *buildDTO         `yaml:"build"`
	Define            map[string]string `yaml:"define"`
}

// buildDTO mirrors domain.RawBuildOptions. Pointer fields keep the
// present/absent distinction the overlay semantics depend on.
type buildDTO struct {
	Base              *string        `yaml:"base"`
	OutDir            *string        `yaml:"outDir"`
	AssetsDir         *string        `yaml:"assetsDir"`
	AssetsInlineLimit *int           `yaml:"assetsInlineLimit"`
	CSSCodeSplit      *bool          `yaml:"cssCodeSplit"`
	Sourcemap         *string        `yaml:"sourcemap"`
	Minify            *string        `yaml:"minify"`
	TerserOptions     map[string]any `yaml:"terserOptions"`
	Write             *bool          `yaml:"write"`
	Manifest          *bool          `yaml:"manifest"`
	Lib               *libDTO        `yaml:"lib"`
	Rollup            *rollupDTO     `yaml:"rollupOptions"`
}

type libDTO struct {
	Entry   string   `yaml:"entry"`
	Name    string   `yaml:"name"`
	Formats []string `yaml:"formats"`
}

type rollupDTO struct {
	Input    string      `yaml:"input"`
	External []string    `yaml:"external"`
	Plugins  []pluginDTO `yaml:"plugins"`
	Output   *outputDTO  `yaml:"output"`
}

type pluginDTO struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
}

type targetDTO struct {
	Format         string `yaml:"format"`
	EntryFileNames string `yaml:"entryFileNames"`
	ChunkFileNames string `yaml:"chunkFileNames"`
	AssetFileNames string `yaml:"assetFileNames"`
	Name           string `yaml:"name"`
	Sourcemap      string `yaml:"sourcemap"`
}

// outputDTO accepts either a single target mapping or a list of targets,
// mirroring the engine's own output option.
type outputDTO struct {
	single *targetDTO
	many   []targetDTO
}

func (o *outputDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&o.many)
	default:
		o.single = &targetDTO{}
		return node.Decode(o.single)
	}
}
