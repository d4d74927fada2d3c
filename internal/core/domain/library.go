package domain

// ModuleFormat is one output module format the engine can generate.
type ModuleFormat string

const (
	// FormatES is the native ES module format.
	FormatES ModuleFormat = "es"
	// FormatCJS is the CommonJS format.
	FormatCJS ModuleFormat = "cjs"
	// FormatUMD is the universal module definition format.
	FormatUMD ModuleFormat = "umd"
	// FormatIIFE is an immediately-invoked function expression.
	FormatIIFE ModuleFormat = "iife"
)

// RequiresName reports whether the format exposes a single global and
// therefore cannot be generated without a library name.
func (f ModuleFormat) RequiresName() bool {
	return f == FormatUMD || f == FormatIIFE
}

// LibrarySpec configures library mode: building a redistributable package
// instead of a deployable application.
type LibrarySpec struct {
	// Entry is the library entry module, relative to the project root.
	Entry string
	// Name is the global variable the library is exposed under. Mandatory
	// when any requested format requires one.
	Name string
	// Formats are the requested output formats, in order. Empty means the
	// default pair {es, umd}.
	Formats []ModuleFormat
}
