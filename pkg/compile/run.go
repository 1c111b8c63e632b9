package compile

import (
	"github.com/rs/zerolog/log"
)

// Compiler sequences the compile phases of one run: libraries, LWRPs,
// attributes, resource definitions, then recipes in strict run-list order.
// Each phase runs to completion before the next starts; the first failure
// in any phase aborts the run.
type Compiler struct {
	rc *RunContext
}

// NewCompiler creates a compiler for the given run.
func NewCompiler(rc *RunContext) *Compiler {
	return &Compiler{rc: rc}
}

// RunContext returns the run context the compiler operates on.
func (c *Compiler) RunContext() *RunContext {
	return c.rc
}

// Run executes every compile phase in order.
func (c *Compiler) Run() error {
	log.Info().
		Str("run_id", c.rc.RunID).
		Str("node", c.rc.Node.Name()).
		Int("run_list", len(c.rc.RunList.Recipes())).
		Int("cookbooks", len(c.rc.CookbookOrder())).
		Msg("compiling cookbooks")

	for _, phase := range []Phase{PhaseLibraries, PhaseLWRPs, PhaseAttributes, PhaseDefinitions} {
		if err := NewSegmentLoader(c.rc, phase).Run(); err != nil {
			return err
		}
	}
	return c.loadRecipes()
}

// loadRecipes loads the run list's recipes in their literal order.
func (c *Compiler) loadRecipes() error {
	names := c.rc.RunList.Recipes()
	c.rc.Events().PhaseStarted(PhaseRecipes, len(names))

	if _, err := c.rc.Includer().Include(names...); err != nil {
		return err
	}

	c.rc.Events().PhaseCompleted(PhaseRecipes)
	log.Info().
		Str("run_id", c.rc.RunID).
		Int("resources", c.rc.Resources.Len()).
		Int("definitions", c.rc.Definitions.Len()).
		Msg("cookbook compilation complete")
	return nil
}
