package domain

// WarningCode is the engine's categorical tag for a warning event.
type WarningCode string

const (
	// WarnUnresolvedImport signals an import the engine could not resolve.
	WarnUnresolvedImport WarningCode = "UNRESOLVED_IMPORT"
	// WarnCircularDependency signals a cycle in the module graph.
	WarnCircularDependency WarningCode = "CIRCULAR_DEPENDENCY"
	// WarnThisIsUndefined signals top-level `this` rewritten to undefined.
	WarnThisIsUndefined WarningCode = "THIS_IS_UNDEFINED"
	// WarnPluginWarning signals a warning raised by a plugin.
	WarnPluginWarning WarningCode = "PLUGIN_WARNING"
)

// SourceLocation points into a source module.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// WarningEvent is one raw warning emitted by the bundling engine during the
// assemble phase. Classification reads it, never mutates it.
type WarningEvent struct {
	Code     WarningCode
	Message  string
	ID       string
	Importer string
	Plugin   string
	Loc      *SourceLocation
	Frame    string
}

// WarningSink consumes warning events that were not suppressed.
type WarningSink func(WarningEvent)

// WarningHandler is a user-supplied warning handler. It receives the event
// and the default sink, and decides whether to re-emit through it.
type WarningHandler func(WarningEvent, WarningSink)
