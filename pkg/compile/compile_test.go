package compile

import (
	"fmt"
)

// fakeCookbook is an in-memory Cookbook for tests. Recipe and attribute
// loads go through the run's Executor, same as the real cookbook type.
type fakeCookbook struct {
	name    string
	deps    map[string]string
	files   map[ArtifactKind][]string
	recipes map[string]string
	attrs   map[string]string
}

func (c *fakeCookbook) Name() string { return c.name }

func (c *fakeCookbook) Dependencies() map[string]string {
	return c.deps
}

func (c *fakeCookbook) FilesForSegment(kind ArtifactKind) []string {
	if kind == KindAttribute {
		paths := make([]string, 0, len(c.attrs))
		for _, path := range c.attrs {
			paths = append(paths, path)
		}
		return paths
	}
	return c.files[kind]
}

func (c *fakeCookbook) RecipeFiles() map[string]string    { return c.recipes }
func (c *fakeCookbook) AttributeFiles() map[string]string { return c.attrs }

func (c *fakeCookbook) LoadRecipe(shortName string, rc *RunContext) (*Recipe, error) {
	path, ok := c.recipes[shortName]
	if !ok {
		return nil, NewRecipeNotFound(c.name, shortName)
	}
	if err := rc.Executor.ExecuteFile(ArtifactFile{Cookbook: c.name, Kind: KindRecipe, Path: path}, rc); err != nil {
		return nil, err
	}
	return &Recipe{Cookbook: c.name, Name: shortName, Path: path}, nil
}

// fakeCollection maps cookbook names to fake cookbooks.
type fakeCollection map[string]*fakeCookbook

func (c fakeCollection) Lookup(name string) (Cookbook, bool) {
	cb, ok := c[name]
	if !ok {
		return nil, false
	}
	return cb, true
}

// fakeNode satisfies the Node interface without any attribute machinery.
type fakeNode struct {
	name string
	rc   *RunContext
}

func (n *fakeNode) Name() string { return n.name }
func (n *fakeNode) IncludeAttribute(name string) error {
	return n.rc.IncludeAttributeFile(name)
}

// fakeRunList is a literal recipe slice.
type fakeRunList []string

func (r fakeRunList) Recipes() []string { return r }

// fakeExecutor records every executed file in order. Paths in fail return
// their error; paths in hooks run a callback instead, which lets a recipe
// simulate nested includes.
type fakeExecutor struct {
	executed []ArtifactFile
	fail     map[string]error
	hooks    map[string]func(rc *RunContext) error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		fail:  make(map[string]error),
		hooks: make(map[string]func(rc *RunContext) error),
	}
}

func (e *fakeExecutor) ExecuteFile(file ArtifactFile, rc *RunContext) error {
	e.executed = append(e.executed, file)
	if hook, ok := e.hooks[file.Path]; ok {
		return hook(rc)
	}
	return e.fail[file.Path]
}

func (e *fakeExecutor) paths() []string {
	paths := make([]string, len(e.executed))
	for i, f := range e.executed {
		paths[i] = f.Path
	}
	return paths
}

// recordingSink captures events as formatted strings for order assertions.
type recordingSink struct {
	events []string
}

func (s *recordingSink) PhaseStarted(phase string, fileCount int) {
	s.events = append(s.events, fmt.Sprintf("phase_started:%s:%d", phase, fileCount))
}

func (s *recordingSink) PhaseCompleted(phase string) {
	s.events = append(s.events, "phase_completed:"+phase)
}

func (s *recordingSink) FileLoaded(phase, path string) {
	s.events = append(s.events, fmt.Sprintf("file_loaded:%s:%s", phase, path))
}

func (s *recordingSink) FileLoadFailed(phase, path string, err error) {
	s.events = append(s.events, fmt.Sprintf("file_load_failed:%s:%s", phase, path))
}

func (s *recordingSink) RecipeNotFound(err error) {
	s.events = append(s.events, "recipe_not_found")
}

func (s *recordingSink) RecipeLoadFailed(path string, err error) {
	s.events = append(s.events, "recipe_load_failed:"+path)
}

func (s *recordingSink) count(prefix string) int {
	n := 0
	for _, e := range s.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// newTestContext wires a run context over the fakes with a recording sink.
func newTestContext(collection fakeCollection, runList []string) (*RunContext, *fakeExecutor, *recordingSink) {
	executor := newFakeExecutor()
	sink := &recordingSink{}
	rc := NewRunContext(RunContextConfig{
		Collection: collection,
		RunList:    fakeRunList(runList),
		Executor:   executor,
		Sink:       sink,
	})
	rc.Node = &fakeNode{name: "test-node", rc: rc}
	return rc, executor, sink
}
