package compile

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// OrderResolver computes the total cookbook order for a run from the run
// list's recipes and each cookbook's declared dependencies.
//
// The order guarantees that a cookbook's dependencies appear strictly
// before the cookbook itself, with ties broken lexically. The dominant
// ordering is the run list's recipe visitation order: the first recipe's
// cookbook subtree is placed first, then the second's, and so on.
type OrderResolver struct {
	collection Collection
}

// NewOrderResolver creates a resolver over the given cookbook collection.
func NewOrderResolver(collection Collection) *OrderResolver {
	return &OrderResolver{collection: collection}
}

// Order returns the deduplicated cookbook order for the given recipe names.
//
// Cookbooks with no backing data in the collection are still placed in the
// order; they only fail later, when a phase dereferences them. Dependency
// cycles are not detected: recursion stops at the first already-visited
// participant, silently truncating the cycle.
func (r *OrderResolver) Order(recipes []string) []string {
	visited := make(map[string]bool)
	order := make([]string, 0, len(recipes))

	for _, name := range recipes {
		cookbook, _ := ParseRecipeName(name)
		r.visit(cookbook, visited, &order)
	}
	return order
}

func (r *OrderResolver) visit(name string, visited map[string]bool, order *[]string) {
	if visited[name] {
		return
	}
	visited[name] = true

	if cookbook, ok := r.collection.Lookup(name); ok {
		depends := cookbook.Dependencies()
		deps := make([]string, 0, len(depends))
		for dep := range depends {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		for _, dep := range deps {
			r.visit(dep, visited, order)
		}
	} else {
		log.Debug().Str("cookbook", name).Msg("cookbook has no metadata in collection, ordering as a leaf")
	}

	*order = append(*order, name)
}
