// Package stores persists run history. The compiler itself keeps no state
// across runs; this package records each run and its lifecycle events in a
// local SQLite database so operators can inspect what a converge run
// loaded, in what order, and where it failed.
//
// The store subscribes to the telemetry event publisher; it is one sink
// among others and the compiler never talks to it directly.
package stores
