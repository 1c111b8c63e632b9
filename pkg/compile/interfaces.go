package compile

// Collection resolves cookbook names to cookbooks. It is externally owned
// and read-only from this package's point of view.
type Collection interface {
	// Lookup returns the cookbook with the given name, or false if the
	// collection has no cookbook by that name.
	Lookup(name string) (Cookbook, bool)
}

// Cookbook is one named unit of packaged configuration artifacts.
type Cookbook interface {
	// Name returns the cookbook's name.
	Name() string

	// Dependencies returns the cookbook's declared dependencies as a
	// mapping from cookbook name to version constraint. Ordering only
	// cares about key presence; constraints are resolved upstream.
	Dependencies() map[string]string

	// FilesForSegment returns the cookbook's files of one artifact kind,
	// in no particular order. The SegmentLoader owns ordering.
	FilesForSegment(kind ArtifactKind) []string

	// RecipeFiles maps recipe short names to their file paths.
	RecipeFiles() map[string]string

	// AttributeFiles maps attribute-file short names to their file paths.
	AttributeFiles() map[string]string

	// LoadRecipe executes the named recipe within the given run context
	// and returns its loaded form. A short name with no backing file
	// returns a recipe-not-found error.
	LoadRecipe(shortName string, rc *RunContext) (*Recipe, error)
}

// Node is the mutable node handle shared across the run. Attribute loading
// writes through it; everything else treats it as read-only.
type Node interface {
	// Name returns the node's name, used for diagnostics only.
	Name() string

	// IncludeAttribute loads a fully qualified "cookbook::attribute" file
	// into the node's attribute state. Loading is memoized per run.
	IncludeAttribute(name string) error
}

// RunList is the expanded run list: the ordered recipe names for this run.
// It drives both dependency-order derivation and the literal recipe load
// order.
type RunList interface {
	// Recipes returns the run list's recipe names in execution order.
	Recipes() []string
}

// Executor executes a single artifact file within a run context. The
// compiler never interprets file contents itself; it only orders files and
// dispatches them here.
type Executor interface {
	ExecuteFile(file ArtifactFile, rc *RunContext) error
}

// EventSink receives compile lifecycle events. Implementations must not
// assume any call ordering beyond what a single-threaded run produces, and
// must not block the run.
type EventSink interface {
	// PhaseStarted reports that a phase began, with the total file count
	// the phase will attempt across all cookbooks.
	PhaseStarted(phase string, fileCount int)

	// PhaseCompleted reports that a phase finished without error.
	PhaseCompleted(phase string)

	// FileLoaded reports one successfully loaded file.
	FileLoaded(phase string, path string)

	// FileLoadFailed reports one failed file load. The run aborts after
	// this event; files loaded earlier stay loaded.
	FileLoadFailed(phase string, path string, err error)

	// RecipeNotFound reports a run-list recipe that resolved to no known
	// recipe.
	RecipeNotFound(err error)

	// RecipeLoadFailed reports a recipe whose execution failed.
	RecipeLoadFailed(path string, err error)
}

// NopSink is an EventSink that discards all events.
type NopSink struct{}

func (NopSink) PhaseStarted(string, int)             {}
func (NopSink) PhaseCompleted(string)                {}
func (NopSink) FileLoaded(string, string)            {}
func (NopSink) FileLoadFailed(string, string, error) {}
func (NopSink) RecipeNotFound(error)                 {}
func (NopSink) RecipeLoadFailed(string, error)       {}
