package resource

import (
	"github.com/rs/zerolog/log"
)

// ProviderType is a cookbook-defined custom provider registered during the
// LWRP phase.
type ProviderType struct {
	// Name is the provider's registered name.
	Name string

	// Cookbook is the cookbook that defined the provider.
	Cookbook string

	// Actions maps action names to the provider's action implementations,
	// in the executor's representation.
	Actions map[string]any
}

// ResourceType is a cookbook-defined custom resource registered during the
// LWRP phase.
type ResourceType struct {
	// Name is the resource type's registered name.
	Name string

	// Cookbook is the cookbook that defined the resource type.
	Cookbook string

	// Properties are the property names the resource type accepts.
	Properties []string

	// DefaultAction is the action used when a declaration names none.
	DefaultAction string
}

// Registry holds the constructs cookbook code registers while loading:
// library helpers from the libraries phase and custom provider/resource
// types from the LWRP phase. It is externally owned; the compiler only
// writes into it through executed cookbook code.
type Registry struct {
	// libraries maps helper names to values in the executor's
	// representation, shared with every later file execution.
	libraries map[string]any

	providers map[string]*ProviderType
	resources map[string]*ResourceType
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		libraries: make(map[string]any),
		providers: make(map[string]*ProviderType),
		resources: make(map[string]*ResourceType),
	}
}

// RegisterLibrary registers one library helper under its name. Later
// cookbooks override earlier same-named helpers.
func (r *Registry) RegisterLibrary(name string, value any) {
	if _, ok := r.libraries[name]; ok {
		log.Info().Str("helper", name).Msg("library helper overridden by later cookbook")
	}
	r.libraries[name] = value
}

// Libraries returns the registered library helpers.
func (r *Registry) Libraries() map[string]any {
	return r.libraries
}

// RegisterProvider registers a custom provider type.
func (r *Registry) RegisterProvider(p *ProviderType) {
	if prev, ok := r.providers[p.Name]; ok {
		log.Info().
			Str("provider", p.Name).
			Str("previous_cookbook", prev.Cookbook).
			Str("cookbook", p.Cookbook).
			Msg("custom provider overridden by later cookbook")
	}
	r.providers[p.Name] = p
}

// Provider returns the provider type with the given name.
func (r *Registry) Provider(name string) (*ProviderType, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// RegisterResource registers a custom resource type.
func (r *Registry) RegisterResource(rt *ResourceType) {
	if prev, ok := r.resources[rt.Name]; ok {
		log.Info().
			Str("resource", rt.Name).
			Str("previous_cookbook", prev.Cookbook).
			Str("cookbook", rt.Cookbook).
			Msg("custom resource overridden by later cookbook")
	}
	r.resources[rt.Name] = rt
}

// Resource returns the resource type with the given name.
func (r *Registry) Resource(name string) (*ResourceType, bool) {
	rt, ok := r.resources[name]
	return rt, ok
}
