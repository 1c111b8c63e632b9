// Package runlist carries the run configuration and the expanded run list
// a converge run is driven by. Expansion itself (role flattening, version
// solving) happens upstream; this package only represents the result.
package runlist

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk run configuration.
type Config struct {
	// NodeName names the node this run converges.
	NodeName string `yaml:"node_name" validate:"required"`

	// CookbookPath is the directory cookbooks are loaded from.
	CookbookPath string `yaml:"cookbook_path" validate:"required"`

	// RunList is the ordered recipe names to run, in "cookbook" or
	// "cookbook::recipe" form.
	RunList []string `yaml:"run_list" validate:"required,min=1,dive,required"`
}

var validate = validator.New()

// LoadConfig reads and validates a run configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse run config %s: %w", path, err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid run config %s: %w", path, err)
	}
	return &cfg, nil
}

// Expanded is an expanded run list: the literal recipe order for one run.
// It implements compile.RunList.
type Expanded struct {
	recipes []string
}

// NewExpanded creates an expanded run list, deduplicating repeated names
// while preserving first-occurrence order.
func NewExpanded(recipes []string) *Expanded {
	seen := make(map[string]bool, len(recipes))
	out := make([]string, 0, len(recipes))
	for _, name := range recipes {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return &Expanded{recipes: out}
}

// Recipes returns the run list's recipe names in execution order.
func (e *Expanded) Recipes() []string {
	return e.recipes
}
