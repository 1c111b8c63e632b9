package node

import (
	"errors"
	"testing"
)

func TestNode_GetSet_DottedPaths(t *testing.T) {
	n := New("web-1")

	n.Set("apache.listen_port", 8080)
	n.Set("apache.docroot", "/srv/www")
	n.Set("hostname", "web-1")

	if v, ok := n.Get("apache.listen_port"); !ok || v != 8080 {
		t.Errorf("Expected 8080, got %v (ok=%v)", v, ok)
	}
	if v, ok := n.Get("hostname"); !ok || v != "web-1" {
		t.Errorf("Expected web-1, got %v (ok=%v)", v, ok)
	}
	if _, ok := n.Get("apache.missing"); ok {
		t.Error("Expected missing leaf to report not found")
	}
	if _, ok := n.Get("missing.deep.path"); ok {
		t.Error("Expected missing subtree to report not found")
	}
}

func TestNode_Set_ReplacesNonMapIntermediate(t *testing.T) {
	n := New("web-1")

	n.Set("apache", "oops")
	n.Set("apache.listen_port", 80)

	if v, ok := n.Get("apache.listen_port"); !ok || v != 80 {
		t.Errorf("Expected intermediate scalar to be replaced, got %v (ok=%v)", v, ok)
	}
}

func TestNode_ReplaceAttributes(t *testing.T) {
	n := New("web-1")
	n.Set("old", true)

	n.ReplaceAttributes(map[string]any{"fresh": 1})

	if _, ok := n.Get("old"); ok {
		t.Error("Expected old attributes to be gone")
	}
	if v, ok := n.Get("fresh"); !ok || v != 1 {
		t.Errorf("Expected fresh attribute, got %v (ok=%v)", v, ok)
	}

	n.ReplaceAttributes(nil)
	if n.Attributes() == nil {
		t.Error("Expected nil replacement to leave an empty map")
	}
}

func TestNode_IncludeAttribute_NoLoader(t *testing.T) {
	n := New("web-1")

	if err := n.IncludeAttribute("apache::default"); err == nil {
		t.Error("Expected an error when no loader is wired")
	}
}

func TestNode_IncludeAttribute_DelegatesToLoader(t *testing.T) {
	n := New("web-1")
	var loadedName string
	n.SetAttributeLoader(func(name string) error {
		loadedName = name
		return nil
	})

	if err := n.IncludeAttribute("apache::ports"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if loadedName != "apache::ports" {
		t.Errorf("Expected loader called with apache::ports, got %q", loadedName)
	}

	wantErr := errors.New("not found")
	n.SetAttributeLoader(func(name string) error { return wantErr })
	if err := n.IncludeAttribute("apache::ports"); !errors.Is(err, wantErr) {
		t.Errorf("Expected loader error to propagate, got: %v", err)
	}
}
