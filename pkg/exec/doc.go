// Package exec executes cookbook artifact files written in Starlark.
//
// The compiler decides which file to load next and delegates here; this
// package owns the script environment. Every execution gets the shared
// node attribute state as a `node` dict, the library helpers registered so
// far, and a small DSL:
//
//	resource(type, name, action=..., **properties)  declare a resource
//	notify(notifier, action, target, timing=...)    record a notification
//	include_recipe(name, ...)                       load further recipes
//	include_attribute("cookbook::file")             load an attribute file
//	define(name, params={}, body=fn)                register a definition
//	register_provider(name, actions={})             register an LWRP provider
//	register_resource(name, properties=[], ...)     register an LWRP resource
//
// Attribute files additionally have their mutations of `node` written back
// to the run's node when the file finishes; library files have their
// exported globals registered as shared helpers.
package exec
