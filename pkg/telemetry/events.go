package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event in the Galley system.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// RunID is the associated run ID, if applicable.
	RunID string `json:"run_id,omitempty"`

	// Phase is the compile phase the event belongs to, if applicable.
	Phase string `json:"phase,omitempty"`

	// Path is the cookbook file the event refers to, if applicable.
	Path string `json:"path,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeRunStarted       = "run.started"
	EventTypeRunCompleted     = "run.completed"
	EventTypeRunFailed        = "run.failed"
	EventTypePhaseStarted     = "phase.started"
	EventTypePhaseCompleted   = "phase.completed"
	EventTypeFileLoaded       = "file.loaded"
	EventTypeFileLoadFailed   = "file.load_failed"
	EventTypeRecipeNotFound   = "recipe.not_found"
	EventTypeRecipeLoadFailed = "recipe.load_failed"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher fans events out to subscribers. Delivery is synchronous
// and in subscription order: the compile run is single-threaded and event
// ordering must match load ordering.
type EventPublisher struct {
	config      EventsConfig
	subscribers []subscriberEntry
	filters     []EventFilter
	mu          sync.RWMutex
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) *EventPublisher {
	return &EventPublisher{config: cfg}
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) {
	if !ep.config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, filter := range ep.filters {
		if !filter(event) {
			return
		}
	}
	for _, entry := range ep.subscribers {
		if entry.filter != nil && !entry.filter(event) {
			continue
		}
		entry.subscriber(event)
	}
}

// Subscribe adds a new event subscriber with an optional filter.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// PublishRunStarted publishes a run started event.
func (ep *EventPublisher) PublishRunStarted(runID, nodeName string) {
	ep.Publish(Event{
		Type:    EventTypeRunStarted,
		Source:  "compile",
		RunID:   runID,
		Message: fmt.Sprintf("Run %s started for node %s", runID, nodeName),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"node": nodeName,
		},
	})
}

// PublishRunCompleted publishes a run completed event.
func (ep *EventPublisher) PublishRunCompleted(runID string, duration time.Duration) {
	ep.Publish(Event{
		Type:    EventTypeRunCompleted,
		Source:  "compile",
		RunID:   runID,
		Message: fmt.Sprintf("Run %s completed", runID),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"duration": duration.Seconds(),
		},
	})
}

// PublishRunFailed publishes a run failed event.
func (ep *EventPublisher) PublishRunFailed(runID, reason string) {
	ep.Publish(Event{
		Type:    EventTypeRunFailed,
		Source:  "compile",
		RunID:   runID,
		Message: fmt.Sprintf("Run %s failed: %s", runID, reason),
		Level:   EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishPhaseStarted publishes a phase started event with the total file
// count the phase will attempt.
func (ep *EventPublisher) PublishPhaseStarted(runID, phase string, fileCount int) {
	ep.Publish(Event{
		Type:    EventTypePhaseStarted,
		Source:  "compile",
		RunID:   runID,
		Phase:   phase,
		Message: fmt.Sprintf("Phase %s started (%d files)", phase, fileCount),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"file_count": fileCount,
		},
	})
}

// PublishPhaseCompleted publishes a phase completed event.
func (ep *EventPublisher) PublishPhaseCompleted(runID, phase string) {
	ep.Publish(Event{
		Type:    EventTypePhaseCompleted,
		Source:  "compile",
		RunID:   runID,
		Phase:   phase,
		Message: fmt.Sprintf("Phase %s completed", phase),
		Level:   EventLevelInfo,
	})
}

// PublishFileLoaded publishes a file loaded event.
func (ep *EventPublisher) PublishFileLoaded(runID, phase, path string) {
	ep.Publish(Event{
		Type:    EventTypeFileLoaded,
		Source:  "compile",
		RunID:   runID,
		Phase:   phase,
		Path:    path,
		Message: fmt.Sprintf("Loaded %s", path),
		Level:   EventLevelInfo,
	})
}

// PublishFileLoadFailed publishes a file load failed event.
func (ep *EventPublisher) PublishFileLoadFailed(runID, phase, path, reason string) {
	ep.Publish(Event{
		Type:    EventTypeFileLoadFailed,
		Source:  "compile",
		RunID:   runID,
		Phase:   phase,
		Path:    path,
		Message: fmt.Sprintf("Failed to load %s: %s", path, reason),
		Level:   EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishRecipeNotFound publishes a recipe not found event.
func (ep *EventPublisher) PublishRecipeNotFound(runID, reason string) {
	ep.Publish(Event{
		Type:    EventTypeRecipeNotFound,
		Source:  "compile",
		RunID:   runID,
		Phase:   "recipes",
		Message: fmt.Sprintf("Recipe not found: %s", reason),
		Level:   EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishRecipeLoadFailed publishes a recipe load failed event.
func (ep *EventPublisher) PublishRecipeLoadFailed(runID, path, reason string) {
	ep.Publish(Event{
		Type:    EventTypeRecipeLoadFailed,
		Source:  "compile",
		RunID:   runID,
		Phase:   "recipes",
		Path:    path,
		Message: fmt.Sprintf("Failed to load recipe %s: %s", path, reason),
		Level:   EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// Common event filters.

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}

	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByRunID creates a filter that only allows events for a specific run.
func FilterByRunID(runID string) EventFilter {
	return func(event Event) bool {
		return event.RunID == runID
	}
}
