package domain

// LogLevel is the logger verbosity configured for a project.
type LogLevel string

const (
	// LogSilent suppresses all output.
	LogSilent LogLevel = "silent"
	// LogWarn emits warnings and errors only.
	LogWarn LogLevel = "warn"
	// LogInfo emits progress, warnings and errors. The default.
	LogInfo LogLevel = "info"
)

// PackageManifest is the parsed project metadata file (package.json).
type PackageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}

// ResolvedConfig is the already-loaded project configuration a build
// invocation starts from.
type ResolvedConfig struct {
	// Root is the absolute project root directory.
	Root string
	// PublicDir is the static-assets source directory, relative to Root.
	PublicDir string
	LogLevel  LogLevel
	// Build holds the user-supplied build options.
	Build RawBuildOptions
	// Plugins are the non-build-specific plugins composed by the loader.
	Plugins []Plugin
	// Define maps global constant names to their replacement expressions.
	Define map[string]string
	// AllowNodeBuiltins lists dependency package names permitted to import
	// platform built-in modules without failing the build.
	AllowNodeBuiltins []string
	// OnWarn is the optional user warning handler.
	OnWarn WarningHandler
}
