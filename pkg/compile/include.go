package compile

import (
	"github.com/rs/zerolog/log"
)

// Includer loads recipes in caller-supplied order. Unlike the segment
// phases, recipes are never reordered by dependency: the run coordinator
// chose the run-list order, and this type honors it literally.
//
// Loading is memoized per run on the fully qualified "cookbook::recipe"
// name, so including the same recipe twice loads it once and contributes
// one result.
type Includer struct {
	rc *RunContext
}

// NewIncluder creates an includer bound to the given run.
func NewIncluder(rc *RunContext) *Includer {
	return &Includer{rc: rc}
}

// Include loads the named recipes in order and returns the loaded recipes
// for names actually loaded this call. Names already loaded earlier in the
// run are skipped silently, so the result may be shorter than the input.
//
// The first failure aborts the remainder: a name resolving to no known
// recipe returns a recipe-not-found error, any other execution failure
// returns a file-load-failure with the resolved path. Both are reported
// through the event sink before returning.
func (i *Includer) Include(names ...string) ([]*Recipe, error) {
	loaded := make([]*Recipe, 0, len(names))
	for _, name := range names {
		recipe, ok, err := i.loadOne(name)
		if err != nil {
			return loaded, err
		}
		if ok {
			loaded = append(loaded, recipe)
		}
	}
	return loaded, nil
}

func (i *Includer) loadOne(name string) (*Recipe, bool, error) {
	cookbookName, shortName := ParseRecipeName(name)
	qualified := QualifiedName(cookbookName, shortName)

	if i.rc.RecipeLoaded(qualified) {
		log.Debug().Str("recipe", qualified).Msg("recipe already loaded, skipping")
		return nil, false, nil
	}
	i.rc.markRecipeLoaded(qualified)

	cookbook, ok := i.rc.Collection.Lookup(cookbookName)
	if !ok {
		err := NewCookbookNotFound(cookbookName)
		i.rc.Events().RecipeNotFound(err)
		return nil, false, err
	}

	recipe, err := cookbook.LoadRecipe(shortName, i.rc)
	if err != nil {
		if IsRecipeNotFound(err) {
			i.rc.Events().RecipeNotFound(err)
			return nil, false, err
		}
		path := cookbook.RecipeFiles()[shortName]
		i.rc.Events().RecipeLoadFailed(path, err)
		if IsFileLoadFailure(err) {
			// A nested include already wrapped the root cause.
			return nil, false, err
		}
		return nil, false, NewFileLoadFailure(KindRecipe, path, err).WithCookbook(cookbookName)
	}

	i.rc.Events().FileLoaded(PhaseRecipes, recipe.Path)
	log.Debug().Str("recipe", qualified).Msg("loaded recipe")
	return recipe, true, nil
}

// ResolveAttribute resolves a cookbook's attribute file by short name and
// returns its path. Used for direct in-recipe attribute inclusion, not by
// the attribute phase loader, so failures are returned without an event.
func (i *Includer) ResolveAttribute(cookbookName, shortName string) (string, error) {
	cookbook, ok := i.rc.Collection.Lookup(cookbookName)
	if !ok {
		return "", NewCookbookNotFound(cookbookName)
	}
	path, ok := cookbook.AttributeFiles()[shortName]
	if !ok {
		return "", NewAttributeNotFound(cookbookName, shortName)
	}
	return path, nil
}
