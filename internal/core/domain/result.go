package domain

// BuildHandle is one assembled-but-not-yet-closed engine instance. Handles
// are owned jointly by the build invocation that created them and the
// parallel-build tracker; only the tracker closes them, once no build is
// in flight, because siblings may still share underlying engine resources.
type BuildHandle interface {
	Close() error
}

// OutputKind classifies one emitted file.
type OutputKind string

const (
	// OutputEntry is an entry chunk.
	OutputEntry OutputKind = "entry"
	// OutputChunk is a shared (non-entry) chunk.
	OutputChunk OutputKind = "chunk"
	// OutputAsset is a static asset (css, images, source maps).
	OutputAsset OutputKind = "asset"
)

// BuildOutput is one file produced by a generation pass.
type BuildOutput struct {
	Name string
	Kind OutputKind
	Size int64
}

// BuildResult is the outcome of one generation pass.
type BuildResult struct {
	Outputs []BuildOutput
}

// Results mirrors the single/many shape of the resolved output targets.
type Results struct {
	single *BuildResult
	many   []BuildResult
}

// SingleResult wraps the result of a single-target build.
func SingleResult(r BuildResult) Results {
	return Results{single: &r}
}

// ManyResults wraps per-target results, in target order.
func ManyResults(rs []BuildResult) Results {
	return Results{many: rs}
}

// Single returns the result of a single-target build.
func (r Results) Single() (BuildResult, bool) {
	if r.single == nil {
		return BuildResult{}, false
	}
	return *r.single, true
}

// Many returns the ordered per-target results of a multi-target build.
func (r Results) Many() ([]BuildResult, bool) {
	if r.many == nil {
		return nil, false
	}
	return r.many, true
}

// List flattens the union for iteration.
func (r Results) List() []BuildResult {
	if r.many != nil {
		return r.many
	}
	if r.single != nil {
		return []BuildResult{*r.single}
	}
	return nil
}
