package compile

import (
	"github.com/google/uuid"

	"github.com/galleyproject/galley/pkg/resource"
)

// RunContextConfig carries the externally-owned collaborators a run context
// is built from.
type RunContextConfig struct {
	// RunID identifies the run in events and logs. Empty means a fresh
	// UUID is generated.
	RunID string

	// Collection is the cookbook collection for this run.
	Collection Collection

	// Node is the mutable node handle shared across the run.
	Node Node

	// RunList is the expanded run list driving the run.
	RunList RunList

	// Executor executes individual artifact files.
	Executor Executor

	// Sink receives compile lifecycle events. Nil means events are
	// discarded.
	Sink EventSink

	// Registry receives constructs registered by library and LWRP loads.
	// Nil means a fresh registry is created for the run.
	Registry *resource.Registry
}

// RunContext holds all state scoped to a single converge run. It is created
// at run start, discarded at run end, and never shared across runs, so no
// locking is needed anywhere in this package.
type RunContext struct {
	// RunID uniquely identifies this run in events and logs.
	RunID string

	// Collection is the cookbook collection for this run.
	Collection Collection

	// Node is the mutable node handle. Attribute loading writes to it.
	Node Node

	// RunList is the expanded run list driving the run.
	RunList RunList

	// Executor executes individual artifact files.
	Executor Executor

	// Definitions is the run's resource-definition table.
	Definitions *DefinitionTable

	// Resources is the run's declared-resource collection, populated as
	// recipes execute.
	Resources *resource.Collection

	// Registry holds custom resource and provider types plus library
	// helpers registered during the library and LWRP phases.
	Registry *resource.Registry

	sink     EventSink
	resolver *OrderResolver
	order    []string
	includer *Includer

	immediate *NotificationRegistry
	delayed   *NotificationRegistry

	loadedRecipes    map[string]struct{}
	loadedAttributes map[string]struct{}
}

// NewRunContext creates the per-run state container from its collaborators.
func NewRunContext(cfg RunContextConfig) *RunContext {
	sink := cfg.Sink
	if sink == nil {
		sink = NopSink{}
	}
	registry := cfg.Registry
	if registry == nil {
		registry = resource.NewRegistry()
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	rc := &RunContext{
		RunID:            runID,
		Collection:       cfg.Collection,
		Node:             cfg.Node,
		RunList:          cfg.RunList,
		Executor:         cfg.Executor,
		Definitions:      NewDefinitionTable(),
		Resources:        resource.NewCollection(),
		Registry:         registry,
		sink:             sink,
		immediate:        NewNotificationRegistry(),
		delayed:          NewNotificationRegistry(),
		loadedRecipes:    make(map[string]struct{}),
		loadedAttributes: make(map[string]struct{}),
	}
	rc.resolver = NewOrderResolver(cfg.Collection)
	rc.includer = NewIncluder(rc)
	return rc
}

// CookbookOrder returns the resolved total cookbook order for this run. The
// order is computed on first use and is immutable for the run's lifetime.
func (rc *RunContext) CookbookOrder() []string {
	if rc.order == nil {
		rc.order = rc.resolver.Order(rc.RunList.Recipes())
	}
	return rc.order
}

// Includer returns the run's recipe includer.
func (rc *RunContext) Includer() *Includer {
	return rc.includer
}

// Events returns the run's event sink.
func (rc *RunContext) Events() EventSink {
	return rc.sink
}

// RecipeLoaded reports whether the fully qualified recipe has already been
// loaded this run.
func (rc *RunContext) RecipeLoaded(qualified string) bool {
	_, ok := rc.loadedRecipes[qualified]
	return ok
}

func (rc *RunContext) markRecipeLoaded(qualified string) {
	rc.loadedRecipes[qualified] = struct{}{}
}

// AttributeLoaded reports whether the fully qualified attribute file has
// already been loaded this run.
func (rc *RunContext) AttributeLoaded(qualified string) bool {
	_, ok := rc.loadedAttributes[qualified]
	return ok
}

func (rc *RunContext) markAttributeLoaded(qualified string) {
	rc.loadedAttributes[qualified] = struct{}{}
}

// IncludeAttributeFile loads one attribute file by its "cookbook::name"
// form, memoized per run. A bare cookbook name loads the cookbook's
// "default" attribute file. Resolution failures are returned without an
// event; no event shape exists for direct attribute inclusion.
func (rc *RunContext) IncludeAttributeFile(name string) error {
	cookbook, shortName := parseAttributeName(name)
	qualified := QualifiedName(cookbook, shortName)
	if rc.AttributeLoaded(qualified) {
		return nil
	}
	rc.markAttributeLoaded(qualified)

	path, err := rc.includer.ResolveAttribute(cookbook, shortName)
	if err != nil {
		return err
	}
	return rc.Executor.ExecuteFile(ArtifactFile{Cookbook: cookbook, Kind: KindAttribute, Path: path}, rc)
}

// NotifyImmediately records a notification for delivery as soon as the
// notifying resource's converge step finishes.
func (rc *RunContext) NotifyImmediately(n Notification) {
	rc.immediate.Record(n)
}

// NotifyDelayed records a notification for delivery at the end of the run.
func (rc *RunContext) NotifyDelayed(n Notification) {
	rc.delayed.Record(n)
}

// ImmediateNotifications returns the immediate-tier notifications recorded
// for the given notifier, in trigger order.
func (rc *RunContext) ImmediateNotifications(notifier any) []Notification {
	return rc.immediate.For(NotifierIdentity(notifier))
}

// DelayedNotifications returns the delayed-tier notifications recorded for
// the given notifier, in trigger order.
func (rc *RunContext) DelayedNotifications(notifier any) []Notification {
	return rc.delayed.For(NotifierIdentity(notifier))
}

// parseAttributeName splits a "cookbook::attribute" name. Unlike recipe
// names, a bare cookbook name refers to the "default" attribute file.
func parseAttributeName(name string) (cookbook, shortName string) {
	cookbook, shortName = ParseRecipeName(name)
	if shortName == cookbook && cookbook == name {
		shortName = "default"
	}
	return cookbook, shortName
}
