package compile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// SegmentLoader runs one compile phase. For each cookbook in the resolved
// order it lists that cookbook's files of the phase's artifact kinds,
// orders them deterministically, and delegates execution to the run's
// Executor one file at a time.
//
// Ordering within a cookbook: the attributes segment loads "default" first
// and the remainder lexically; the LWRP phase loads all provider files
// before all resource files, each group lexically; every other segment
// loads lexically.
//
// The first file that fails to load emits a failure event and aborts the
// phase and the run. Files loaded before the failure are not rolled back.
type SegmentLoader struct {
	phase Phase
	rc    *RunContext
}

// NewSegmentLoader creates a loader for one phase of the given run.
func NewSegmentLoader(rc *RunContext, phase Phase) *SegmentLoader {
	return &SegmentLoader{phase: phase, rc: rc}
}

// Run executes the phase to completion or first failure.
func (l *SegmentLoader) Run() error {
	order := l.rc.CookbookOrder()

	cookbooks := make([]Cookbook, 0, len(order))
	for _, name := range order {
		cookbook, ok := l.rc.Collection.Lookup(name)
		if !ok {
			return NewCookbookNotFound(name)
		}
		cookbooks = append(cookbooks, cookbook)
	}

	files := make([]ArtifactFile, 0)
	for _, cookbook := range cookbooks {
		files = append(files, l.orderedFiles(cookbook)...)
	}

	l.rc.Events().PhaseStarted(l.phase.Name, len(files))
	log.Debug().
		Str("run_id", l.rc.RunID).
		Str("phase", l.phase.Name).
		Int("files", len(files)).
		Msg("starting compile phase")

	for _, file := range files {
		if err := l.loadFile(file); err != nil {
			return err
		}
	}

	l.rc.Events().PhaseCompleted(l.phase.Name)
	return nil
}

// orderedFiles returns one cookbook's files for this phase in load order.
func (l *SegmentLoader) orderedFiles(cookbook Cookbook) []ArtifactFile {
	var files []ArtifactFile
	for _, kind := range l.phase.Kinds {
		paths := append([]string(nil), cookbook.FilesForSegment(kind)...)
		sortSegmentPaths(kind, paths)
		for _, path := range paths {
			files = append(files, ArtifactFile{Cookbook: cookbook.Name(), Kind: kind, Path: path})
		}
	}
	return files
}

func (l *SegmentLoader) loadFile(file ArtifactFile) error {
	if file.Kind == KindAttribute {
		qualified := QualifiedName(file.Cookbook, shortNameForPath(file.Path))
		if l.rc.AttributeLoaded(qualified) {
			log.Debug().Str("attribute", qualified).Msg("attribute file already loaded, skipping")
			return nil
		}
		l.rc.markAttributeLoaded(qualified)
	}

	if err := l.rc.Executor.ExecuteFile(file, l.rc); err != nil {
		l.rc.Events().FileLoadFailed(l.phase.Name, file.Path, err)
		return NewFileLoadFailure(file.Kind, file.Path, err).WithCookbook(file.Cookbook)
	}

	l.rc.Events().FileLoaded(l.phase.Name, file.Path)
	return nil
}

// sortSegmentPaths orders one kind's paths in place. All kinds sort
// lexically; the attributes segment additionally floats "default" to the
// front.
func sortSegmentPaths(kind ArtifactKind, paths []string) {
	sort.Strings(paths)
	if kind != KindAttribute {
		return
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return isDefaultAttribute(paths[i]) && !isDefaultAttribute(paths[j])
	})
}

func isDefaultAttribute(path string) bool {
	return shortNameForPath(path) == "default"
}

// shortNameForPath derives an artifact short name from its file path: the
// base name without extension.
func shortNameForPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
