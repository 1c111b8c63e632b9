package cookbook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/galleyproject/galley/pkg/compile"
)

// segmentDirs maps artifact kinds to their directory under a cookbook root.
var segmentDirs = map[compile.ArtifactKind]string{
	compile.KindLibrary:      "libraries",
	compile.KindAttribute:    "attributes",
	compile.KindLwrpProvider: "providers",
	compile.KindLwrpResource: "resources",
	compile.KindDefinition:   "definitions",
	compile.KindRecipe:       "recipes",
}

// artifactExt is the file extension of loadable cookbook files.
const artifactExt = ".star"

// Cookbook is one cookbook loaded from disk. It implements
// compile.Cookbook.
type Cookbook struct {
	metadata *Metadata
	root     string

	// files maps artifact kind to the paths found in the corresponding
	// segment directory, unordered.
	files map[compile.ArtifactKind][]string
}

// Open loads a cookbook from its directory, reading metadata.yaml and
// enumerating every segment directory.
func Open(root string) (*Cookbook, error) {
	md, err := ParseMetadata(filepath.Join(root, "metadata.yaml"))
	if err != nil {
		return nil, err
	}

	cb := &Cookbook{
		metadata: md,
		root:     root,
		files:    make(map[compile.ArtifactKind][]string),
	}

	for kind, dir := range segmentDirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExt) {
				continue
			}
			cb.files[kind] = append(cb.files[kind], filepath.Join(root, dir, entry.Name()))
		}
	}
	return cb, nil
}

// Name returns the cookbook's name from its metadata.
func (c *Cookbook) Name() string {
	return c.metadata.Name
}

// Version returns the cookbook's version string.
func (c *Cookbook) Version() string {
	return c.metadata.Version
}

// Dependencies returns the declared dependency map from metadata.
func (c *Cookbook) Dependencies() map[string]string {
	return c.metadata.Depends
}

// FilesForSegment returns the cookbook's files of one artifact kind, in no
// particular order.
func (c *Cookbook) FilesForSegment(kind compile.ArtifactKind) []string {
	return c.files[kind]
}

// RecipeFiles maps recipe short names to paths.
func (c *Cookbook) RecipeFiles() map[string]string {
	return c.shortNames(compile.KindRecipe)
}

// AttributeFiles maps attribute-file short names to paths.
func (c *Cookbook) AttributeFiles() map[string]string {
	return c.shortNames(compile.KindAttribute)
}

func (c *Cookbook) shortNames(kind compile.ArtifactKind) map[string]string {
	out := make(map[string]string, len(c.files[kind]))
	for _, path := range c.files[kind] {
		base := filepath.Base(path)
		out[strings.TrimSuffix(base, artifactExt)] = path
	}
	return out
}

// LoadRecipe executes the named recipe within the run context and returns
// its loaded form.
func (c *Cookbook) LoadRecipe(shortName string, rc *compile.RunContext) (*compile.Recipe, error) {
	path, ok := c.RecipeFiles()[shortName]
	if !ok {
		return nil, compile.NewRecipeNotFound(c.Name(), shortName)
	}

	file := compile.ArtifactFile{Cookbook: c.Name(), Kind: compile.KindRecipe, Path: path}
	if err := rc.Executor.ExecuteFile(file, rc); err != nil {
		return nil, err
	}
	return &compile.Recipe{Cookbook: c.Name(), Name: shortName, Path: path}, nil
}
