// Package node provides the mutable node a converge run operates on. The
// node carries the attribute state attribute files write into; everything
// else in the run reads it.
package node

import (
	"fmt"
	"strings"
)

// AttributeLoader loads a fully qualified "cookbook::attribute" file into
// the node. The run coordinator wires this to the compiler's attribute
// resolution, keeping the node free of any compile dependency.
type AttributeLoader func(name string) error

// Node is one managed node's in-run state.
type Node struct {
	name       string
	attributes map[string]any
	loader     AttributeLoader
}

// New creates a node with the given name and empty attributes.
func New(name string) *Node {
	return &Node{
		name:       name,
		attributes: make(map[string]any),
	}
}

// Name returns the node's name, used for diagnostics.
func (n *Node) Name() string {
	return n.name
}

// SetAttributeLoader wires the loader IncludeAttribute delegates to.
func (n *Node) SetAttributeLoader(loader AttributeLoader) {
	n.loader = loader
}

// IncludeAttribute loads a fully qualified attribute file into the node.
func (n *Node) IncludeAttribute(name string) error {
	if n.loader == nil {
		return fmt.Errorf("node %q has no attribute loader wired", n.name)
	}
	return n.loader(name)
}

// Attributes returns the node's live attribute map.
func (n *Node) Attributes() map[string]any {
	return n.attributes
}

// ReplaceAttributes swaps the node's attribute state wholesale. Attribute
// file execution round-trips the full map through the executor and writes
// the result back here.
func (n *Node) ReplaceAttributes(attrs map[string]any) {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	n.attributes = attrs
}

// Get resolves a dotted attribute path, e.g. "apache.listen_port".
func (n *Node) Get(path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = n.attributes
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set writes a dotted attribute path, creating intermediate maps as
// needed. An intermediate non-map value is replaced.
func (n *Node) Set(path string, value any) {
	parts := strings.Split(path, ".")
	m := n.attributes
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
