package domain

// OutputTarget is one complete instruction for one generation pass.
// Naming templates use the engine's token syntax: [name], [hash], [ext].
type OutputTarget struct {
	Format         ModuleFormat
	Dir            string
	EntryFileNames string
	ChunkFileNames string
	AssetFileNames string
	// Name is the exposed global for umd/iife output.
	Name      string
	Sourcemap SourcemapMode
	// Exports is the engine's export-mode compatibility flag. Generation
	// always forces "named" so CommonJS-interop chunks carry the module tag.
	Exports string
}

// Targets is the resolved output-target set for one build: none (engine
// defaults), a single target, or an ordered list. Resolving the shape once
// here removes shape-checking from the generation path.
type Targets struct {
	single *OutputTarget
	many   []OutputTarget
}

// SingleTarget wraps one target.
func SingleTarget(t OutputTarget) Targets {
	return Targets{single: &t}
}

// ManyTargets wraps an ordered list of targets.
func ManyTargets(ts []OutputTarget) Targets {
	return Targets{many: ts}
}

// IsZero reports whether no target was specified at all.
func (t Targets) IsZero() bool {
	return t.single == nil && t.many == nil
}

// Single returns the target when exactly one was specified directly.
func (t Targets) Single() (OutputTarget, bool) {
	if t.single == nil {
		return OutputTarget{}, false
	}
	return *t.single, true
}

// Many returns the target list when an explicit list was specified.
func (t Targets) Many() ([]OutputTarget, bool) {
	if t.many == nil {
		return nil, false
	}
	return t.many, true
}

// List flattens the union for iteration. A zero Targets yields one default
// target so every build performs at least one generation pass.
func (t Targets) List() []OutputTarget {
	switch {
	case t.many != nil:
		return t.many
	case t.single != nil:
		return []OutputTarget{*t.single}
	default:
		return []OutputTarget{{}}
	}
}

// Len reports the number of generation passes the set drives.
func (t Targets) Len() int {
	return len(t.List())
}
