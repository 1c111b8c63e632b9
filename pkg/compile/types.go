package compile

import (
	"fmt"
	"strings"
)

// ArtifactKind identifies one kind of loadable cookbook file.
type ArtifactKind string

const (
	// KindLibrary is shared library code loaded before everything else.
	KindLibrary ArtifactKind = "library"

	// KindAttribute is a default attribute file that mutates the node.
	KindAttribute ArtifactKind = "attribute"

	// KindLwrpProvider is a cookbook-defined custom provider.
	KindLwrpProvider ArtifactKind = "lwrp_provider"

	// KindLwrpResource is a cookbook-defined custom resource.
	KindLwrpResource ArtifactKind = "lwrp_resource"

	// KindDefinition is a resource-definition macro.
	KindDefinition ArtifactKind = "definition"

	// KindRecipe is an ordered convergence script.
	KindRecipe ArtifactKind = "recipe"
)

// ArtifactFile is one loadable file within a cookbook.
type ArtifactFile struct {
	// Cookbook is the owning cookbook's name.
	Cookbook string

	// Kind is the artifact kind of the file.
	Kind ArtifactKind

	// Path is the local path of the file.
	Path string
}

func (f ArtifactFile) String() string {
	return fmt.Sprintf("%s[%s]%s", f.Cookbook, f.Kind, f.Path)
}

// Phase is one ordered pass over the resolved cookbook order. The LWRP
// phase covers two artifact kinds; providers always load before resources
// within a cookbook.
type Phase struct {
	// Name is the phase name used in events and logs.
	Name string

	// Kinds are the artifact kinds loaded by this phase, in load order.
	Kinds []ArtifactKind
}

// The compile phases, in the order a run executes them. Recipes are not a
// segment phase: they load in run-list order through the Includer.
var (
	PhaseLibraries   = Phase{Name: "libraries", Kinds: []ArtifactKind{KindLibrary}}
	PhaseLWRPs       = Phase{Name: "lwrps", Kinds: []ArtifactKind{KindLwrpProvider, KindLwrpResource}}
	PhaseAttributes  = Phase{Name: "attributes", Kinds: []ArtifactKind{KindAttribute}}
	PhaseDefinitions = Phase{Name: "definitions", Kinds: []ArtifactKind{KindDefinition}}
)

// PhaseRecipes is the name used in recipe-phase events.
const PhaseRecipes = "recipes"

// Recipe is the loaded form of a single recipe.
type Recipe struct {
	// Cookbook is the owning cookbook's name.
	Cookbook string

	// Name is the recipe's short name within its cookbook.
	Name string

	// Path is the file the recipe was loaded from.
	Path string
}

// Qualified returns the recipe's fully qualified "cookbook::name" form.
func (r *Recipe) Qualified() string {
	return r.Cookbook + "::" + r.Name
}

// ParseRecipeName splits a run-list recipe name into its cookbook and
// short-name parts. A bare name without the "::" separator names the
// cookbook, and the short name equals the cookbook name.
func ParseRecipeName(name string) (cookbook, shortName string) {
	if idx := strings.Index(name, "::"); idx >= 0 {
		return name[:idx], name[idx+2:]
	}
	return name, name
}

// QualifiedName joins a cookbook and short name into "cookbook::name" form.
func QualifiedName(cookbook, shortName string) string {
	return cookbook + "::" + shortName
}
