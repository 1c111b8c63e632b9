// Package resource holds the resource-side collaborators of a converge
// run: declared resources collected as recipes execute, and the registry
// of cookbook-defined constructs (library helpers, custom providers and
// resources) populated during the library and LWRP compile phases.
//
// Both structures are owned by the caller that drives a run and outlive no
// run boundary concerns of their own: the Collection is per-run, while a
// Registry may be reused across runs when the cookbook set is unchanged.
package resource
