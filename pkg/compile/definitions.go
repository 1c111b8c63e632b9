package compile

import (
	"github.com/rs/zerolog/log"
)

// Definition is one resource-definition macro registered during the
// definitions phase. Body is opaque to the compiler; the executor that
// loaded the definition knows how to expand it.
type Definition struct {
	// Name is the definition's name, unique within a run after merging.
	Name string

	// Cookbook is the cookbook the winning definition came from.
	Cookbook string

	// Params are the definition's default parameters.
	Params map[string]any

	// Body is the definition body in the executor's representation.
	Body any
}

// DefinitionTable maps definition names to definition bodies for one run.
// Cookbooks later in the resolved order silently override earlier
// same-named definitions; the override is logged informationally, not an
// error.
type DefinitionTable struct {
	defs map[string]*Definition
}

// NewDefinitionTable creates an empty definition table.
func NewDefinitionTable() *DefinitionTable {
	return &DefinitionTable{defs: make(map[string]*Definition)}
}

// Register adds a definition, replacing any earlier definition of the same
// name (last writer wins).
func (t *DefinitionTable) Register(def *Definition) {
	if prev, ok := t.defs[def.Name]; ok {
		log.Info().
			Str("definition", def.Name).
			Str("previous_cookbook", prev.Cookbook).
			Str("cookbook", def.Cookbook).
			Msg("resource definition overridden by later cookbook")
	}
	t.defs[def.Name] = def
}

// Lookup returns the definition with the given name.
func (t *DefinitionTable) Lookup(name string) (*Definition, bool) {
	def, ok := t.defs[name]
	return def, ok
}

// Len returns the number of registered definitions.
func (t *DefinitionTable) Len() int {
	return len(t.defs)
}
