package resource

import (
	"fmt"
)

// Resource is one declared resource: a desired-state statement a recipe
// contributes to the run's resource collection.
type Resource struct {
	// Type is the resource type, e.g. "package" or a custom LWRP type.
	Type string `json:"type"`

	// Name is the resource's declared name within the run.
	Name string `json:"name"`

	// Action is the action the converge engine should take.
	Action string `json:"action,omitempty"`

	// Properties are the resource's desired-state properties.
	Properties map[string]any `json:"properties,omitempty"`

	// Cookbook and Recipe record where the resource was declared.
	Cookbook string `json:"cookbook,omitempty"`
	Recipe   string `json:"recipe,omitempty"`
}

// DeclaredName returns the "type[name]" form the resource was declared
// under. Notification registries key resource notifiers by this, so a
// resource instance and its declared string form share one identity.
func (r *Resource) DeclaredName() string {
	return r.ID()
}

// ID returns the resource's "type[name]" identity string.
func (r *Resource) ID() string {
	return fmt.Sprintf("%s[%s]", r.Type, r.Name)
}

// String implements fmt.Stringer.
func (r *Resource) String() string {
	return r.ID()
}

// Collection is the insertion-ordered set of resources declared during a
// run. Recipes append as they execute; converge later walks the collection
// in declaration order.
type Collection struct {
	resources []*Resource
	index     map[string]int
}

// NewCollection creates an empty resource collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Add appends a resource. A later resource with the same ID shadows the
// earlier one for lookup but both stay in declaration order.
func (c *Collection) Add(r *Resource) {
	c.index[r.ID()] = len(c.resources)
	c.resources = append(c.resources, r)
}

// Lookup returns the resource with the given "type[name]" ID.
func (c *Collection) Lookup(id string) (*Resource, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.resources[i], true
}

// All returns the resources in declaration order.
func (c *Collection) All() []*Resource {
	return c.resources
}

// Len returns the number of declared resources.
func (c *Collection) Len() int {
	return len(c.resources)
}
