package compile

import (
	"errors"
	"reflect"
	"testing"
)

func TestSegmentLoader_Run_AttributesDefaultFirst(t *testing.T) {
	collection := fakeCollection{
		"app": {
			name: "app",
			attrs: map[string]string{
				"zz":      "app/attributes/zz.star",
				"aaa":     "app/attributes/aaa.star",
				"default": "app/attributes/default.star",
			},
		},
	}
	rc, executor, sink := newTestContext(collection, []string{"app"})

	if err := NewSegmentLoader(rc, PhaseAttributes).Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		"app/attributes/default.star",
		"app/attributes/aaa.star",
		"app/attributes/zz.star",
	}
	if !reflect.DeepEqual(executor.paths(), expected) {
		t.Errorf("Expected default-first attribute order %v, got %v", expected, executor.paths())
	}
	if sink.events[0] != "phase_started:attributes:3" {
		t.Errorf("Expected phase start with file count 3, got %q", sink.events[0])
	}
	if sink.events[len(sink.events)-1] != "phase_completed:attributes" {
		t.Errorf("Expected phase completion last, got %q", sink.events[len(sink.events)-1])
	}
}

func TestSegmentLoader_Run_ProvidersBeforeResources(t *testing.T) {
	collection := fakeCollection{
		"app": {
			name: "app",
			files: map[ArtifactKind][]string{
				KindLwrpProvider: {"app/providers/p2.star", "app/providers/p1.star"},
				KindLwrpResource: {"app/resources/r1.star"},
			},
		},
	}
	rc, executor, _ := newTestContext(collection, []string{"app"})

	if err := NewSegmentLoader(rc, PhaseLWRPs).Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		"app/providers/p1.star",
		"app/providers/p2.star",
		"app/resources/r1.star",
	}
	if !reflect.DeepEqual(executor.paths(), expected) {
		t.Errorf("Expected providers before resources %v, got %v", expected, executor.paths())
	}
}

func TestSegmentLoader_Run_CookbookOrderBeforeSegmentOrder(t *testing.T) {
	collection := fakeCollection{
		"app": {
			name: "app",
			deps: map[string]string{"base": ">= 0.0.0"},
			files: map[ArtifactKind][]string{
				KindLibrary: {"app/libraries/aaa.star"},
			},
		},
		"base": {
			name: "base",
			files: map[ArtifactKind][]string{
				KindLibrary: {"base/libraries/zzz.star"},
			},
		},
	}
	rc, executor, _ := newTestContext(collection, []string{"app"})

	if err := NewSegmentLoader(rc, PhaseLibraries).Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"base/libraries/zzz.star", "app/libraries/aaa.star"}
	if !reflect.DeepEqual(executor.paths(), expected) {
		t.Errorf("Expected dependency cookbook first %v, got %v", expected, executor.paths())
	}
}

func TestSegmentLoader_Run_FirstFailureAborts(t *testing.T) {
	collection := fakeCollection{
		"app": {
			name: "app",
			files: map[ArtifactKind][]string{
				KindLibrary: {"app/libraries/a.star", "app/libraries/b.star", "app/libraries/c.star"},
			},
		},
	}
	rc, executor, sink := newTestContext(collection, []string{"app"})
	cause := errors.New("syntax error")
	executor.fail["app/libraries/b.star"] = cause

	err := NewSegmentLoader(rc, PhaseLibraries).Run()

	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	if !IsFileLoadFailure(err) {
		t.Errorf("Expected a file-load-failure, got: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected error to wrap the cause")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected a CompileError, got %T", err)
	}
	if ce.Path != "app/libraries/b.star" {
		t.Errorf("Expected path app/libraries/b.star, got %q", ce.Path)
	}
	if ce.Cookbook != "app" {
		t.Errorf("Expected cookbook app, got %q", ce.Cookbook)
	}
	if ce.Segment != KindLibrary {
		t.Errorf("Expected segment %q, got %q", KindLibrary, ce.Segment)
	}

	// The failing file was attempted, the one after it was not.
	expected := []string{"app/libraries/a.star", "app/libraries/b.star"}
	if !reflect.DeepEqual(executor.paths(), expected) {
		t.Errorf("Expected abort after failure, executed %v", executor.paths())
	}
	if sink.count("file_load_failed:") != 1 {
		t.Errorf("Expected exactly one failure event, got %d", sink.count("file_load_failed:"))
	}
	if sink.count("file_loaded:") != 1 {
		t.Errorf("Expected one success event for the file before the failure, got %d", sink.count("file_loaded:"))
	}
	if sink.count("phase_completed:") != 0 {
		t.Errorf("Expected no phase completion after failure")
	}
}

func TestSegmentLoader_Run_MissingCookbookFailsBeforePhaseStart(t *testing.T) {
	collection := fakeCollection{
		"app": {name: "app", deps: map[string]string{"ghost": ">= 0.0.0"}},
	}
	rc, executor, sink := newTestContext(collection, []string{"app"})

	err := NewSegmentLoader(rc, PhaseLibraries).Run()

	if !IsCookbookNotFound(err) {
		t.Fatalf("Expected cookbook-not-found, got: %v", err)
	}
	if len(executor.executed) != 0 {
		t.Errorf("Expected no files executed, got %d", len(executor.executed))
	}
	if sink.count("phase_started:") != 0 {
		t.Errorf("Expected no phase start event before resolution failure")
	}
}

func TestSegmentLoader_Run_AttributeMemoizedAcrossLoads(t *testing.T) {
	collection := fakeCollection{
		"app": {
			name: "app",
			attrs: map[string]string{
				"default": "app/attributes/default.star",
				"tuning":  "app/attributes/tuning.star",
			},
		},
	}
	rc, executor, _ := newTestContext(collection, []string{"app"})

	// A recipe-style direct inclusion before the attribute phase runs.
	if err := rc.IncludeAttributeFile("app::default"); err != nil {
		t.Fatalf("Expected no error from direct inclusion, got: %v", err)
	}

	if err := NewSegmentLoader(rc, PhaseAttributes).Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"app/attributes/default.star", "app/attributes/tuning.star"}
	if !reflect.DeepEqual(executor.paths(), expected) {
		t.Errorf("Expected default loaded once, executed %v", executor.paths())
	}
}

func TestSegmentLoader_Run_EmptyPhaseStillEmitsEvents(t *testing.T) {
	collection := fakeCollection{
		"app": {name: "app"},
	}
	rc, _, sink := newTestContext(collection, []string{"app"})

	if err := NewSegmentLoader(rc, PhaseDefinitions).Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"phase_started:definitions:0", "phase_completed:definitions"}
	if !reflect.DeepEqual(sink.events, expected) {
		t.Errorf("Expected empty phase events %v, got %v", expected, sink.events)
	}
}
