package compile

import (
	"fmt"
)

// Notification records one resource's intent to trigger an action on
// another resource. Delivery timing belongs to the converge engine; the
// compiler only keeps the registry of pending notifications.
type Notification struct {
	// Notifier is the resource (or other value) whose state change
	// triggers the notification.
	Notifier any

	// Action is the action to run on the target.
	Action string

	// Target identifies the resource to act on.
	Target string
}

// NotifierID returns the identity the notification is keyed by.
func (n Notification) NotifierID() string {
	return NotifierIdentity(n.Notifier)
}

// NotifierIdentity derives the registry key for a notifier: the declared
// resource name when the notifier is a resource instance, otherwise its
// displayable string form. Callers must treat both forms as the same
// identity space.
func NotifierIdentity(notifier any) string {
	type declared interface {
		DeclaredName() string
	}
	if r, ok := notifier.(declared); ok {
		return r.DeclaredName()
	}
	if s, ok := notifier.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(notifier)
}

// NotificationRegistry maps resource identity to the ordered notifications
// that resource has pending. A run holds two independent instances, one per
// delivery tier.
type NotificationRegistry struct {
	pending map[string][]Notification
}

// NewNotificationRegistry creates an empty registry.
func NewNotificationRegistry() *NotificationRegistry {
	return &NotificationRegistry{pending: make(map[string][]Notification)}
}

// Record appends a notification under its notifier's identity. Insertion
// order is trigger order.
func (r *NotificationRegistry) Record(n Notification) {
	id := n.NotifierID()
	r.pending[id] = append(r.pending[id], n)
}

// For returns the notifications recorded for the given identity, in trigger
// order. An identity with no recorded notifications yields an empty slice;
// querying never creates an entry.
func (r *NotificationRegistry) For(id string) []Notification {
	return r.pending[id]
}

// Len returns the number of identities with pending notifications.
func (r *NotificationRegistry) Len() int {
	return len(r.pending)
}
