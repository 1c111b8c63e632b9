// Package cookbook loads cookbooks from disk and exposes them through the
// compiler's collection interfaces.
//
// A cookbook directory looks like:
//
//	apache/
//	  metadata.yaml
//	  libraries/*.star
//	  attributes/*.star
//	  providers/*.star
//	  resources/*.star
//	  definitions/*.star
//	  recipes/*.star
//
// metadata.yaml names the cookbook, its version, and its dependencies.
// Every segment directory is optional; the package only enumerates what
// exists and leaves ordering and execution to the compiler.
package cookbook
