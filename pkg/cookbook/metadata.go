package cookbook

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Metadata is a cookbook's metadata.yaml contents.
type Metadata struct {
	// Name is the cookbook's name. It must match the map key the
	// collection indexes the cookbook under.
	Name string `yaml:"name" validate:"required"`

	// Version is the cookbook's version string.
	Version string `yaml:"version"`

	// Description is a short human-readable description.
	Description string `yaml:"description"`

	// Depends maps dependency cookbook names to version constraints.
	// Ordering only cares about key presence; constraints are for the
	// upstream run-list resolver.
	Depends map[string]string `yaml:"depends"`
}

var validate = validator.New()

// ParseMetadata reads and validates a metadata.yaml file.
func ParseMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookbook metadata: %w", err)
	}

	var md Metadata
	if err := yaml.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("failed to parse cookbook metadata %s: %w", path, err)
	}

	if err := validate.Struct(&md); err != nil {
		return nil, fmt.Errorf("invalid cookbook metadata %s: %w", path, err)
	}

	if md.Depends == nil {
		md.Depends = make(map[string]string)
	}
	return &md, nil
}
