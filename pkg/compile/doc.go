// Package compile implements the cookbook compiler at the heart of a Galley
// converge run.
//
// A run starts from an expanded run list: the ordered recipe names to
// execute plus per-cookbook dependency metadata. Recipes load strictly in
// run-list order, but every other artifact kind (libraries, LWRP providers
// and resources, attributes, resource definitions) has no inherent order and
// is loaded in dependency order instead: a cookbook's declared dependencies
// are loaded, per phase, before the cookbook itself.
//
// The package provides four cooperating pieces:
//
//   - OrderResolver computes the single total cookbook order used by every
//     phase of the run. The order is computed once and never changes for the
//     lifetime of the run.
//
//   - SegmentLoader runs one phase: for each cookbook in resolved order it
//     lists that cookbook's files of the phase's artifact kinds, orders them
//     deterministically, and delegates execution to the injected Executor.
//     Lifecycle events are emitted through an EventSink so progress
//     reporting stays decoupled from the ordering logic.
//
//   - Includer loads recipes in caller-supplied order, memoized so each
//     qualified recipe loads at most once per run. It also resolves
//     individual attribute files by name for in-recipe inclusion.
//
//   - NotificationRegistry records pending notifications keyed by the
//     triggering resource's identity, in independent immediate and delayed
//     tiers. Delivery timing is the converge engine's concern, not this
//     package's.
//
// Everything here is single-threaded and scoped to one run: the RunContext
// and all structures hanging off it are created at run start and discarded
// at run end. The cookbook collection and the node are externally owned
// inputs; attribute loading deliberately mutates the node, which is the
// only write this package performs on external state.
//
// Dependency cycles are not treated as errors. Resolution simply stops
// recursing when it reaches a cookbook it has already visited, which
// silently truncates the cycle. This is a known, accepted limitation of the
// resolver rather than a validation gap.
package compile
