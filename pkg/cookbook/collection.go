package cookbook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/galleyproject/galley/pkg/compile"
)

// Collection is a set of cookbooks indexed by name. It implements
// compile.Collection.
type Collection struct {
	cookbooks map[string]*Cookbook
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{cookbooks: make(map[string]*Cookbook)}
}

// LoadCollection opens every cookbook directory under root. A directory
// without a metadata.yaml is skipped; a cookbook that fails to parse is an
// error.
func LoadCollection(root string) (*Collection, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookbook path %s: %w", root, err)
	}

	coll := NewCollection()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "metadata.yaml")); err != nil {
			log.Debug().Str("dir", dir).Msg("skipping directory without cookbook metadata")
			continue
		}
		cb, err := Open(dir)
		if err != nil {
			return nil, err
		}
		coll.Add(cb)
	}

	log.Debug().Int("cookbooks", len(coll.cookbooks)).Str("path", root).Msg("loaded cookbook collection")
	return coll, nil
}

// Add indexes a cookbook under its metadata name.
func (c *Collection) Add(cb *Cookbook) {
	c.cookbooks[cb.Name()] = cb
}

// Lookup implements compile.Collection.
func (c *Collection) Lookup(name string) (compile.Cookbook, bool) {
	cb, ok := c.cookbooks[name]
	if !ok {
		return nil, false
	}
	return cb, true
}

// Names returns the names of all cookbooks in the collection.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.cookbooks))
	for name := range c.cookbooks {
		names = append(names, name)
	}
	return names
}

// Len returns the number of cookbooks in the collection.
func (c *Collection) Len() int {
	return len(c.cookbooks)
}
