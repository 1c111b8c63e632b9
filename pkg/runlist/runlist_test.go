package runlist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
node_name: web-1
cookbook_path: ./cookbooks
run_list:
  - base
  - nginx::install
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.NodeName != "web-1" {
		t.Errorf("Expected node web-1, got %q", cfg.NodeName)
	}
	if cfg.CookbookPath != "./cookbooks" {
		t.Errorf("Expected cookbook path ./cookbooks, got %q", cfg.CookbookPath)
	}
	expected := []string{"base", "nginx::install"}
	if !reflect.DeepEqual(cfg.RunList, expected) {
		t.Errorf("Expected run list %v, got %v", expected, cfg.RunList)
	}
}

func TestLoadConfig_MissingRunList(t *testing.T) {
	path := writeConfig(t, `
node_name: web-1
cookbook_path: ./cookbooks
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for missing run list")
	}
}

func TestLoadConfig_EmptyRunList(t *testing.T) {
	path := writeConfig(t, `
node_name: web-1
cookbook_path: ./cookbooks
run_list: []
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for empty run list")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "run_list: [unclosed")

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error for invalid YAML")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestNewExpanded_DeduplicatesPreservingOrder(t *testing.T) {
	expanded := NewExpanded([]string{"base", "nginx::install", "base", "nginx::install", "app"})

	expected := []string{"base", "nginx::install", "app"}
	if !reflect.DeepEqual(expanded.Recipes(), expected) {
		t.Errorf("Expected %v, got %v", expected, expanded.Recipes())
	}
}

func TestNewExpanded_Empty(t *testing.T) {
	expanded := NewExpanded(nil)

	if len(expanded.Recipes()) != 0 {
		t.Errorf("Expected empty run list, got %v", expanded.Recipes())
	}
}
