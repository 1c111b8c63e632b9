package compile

import (
	"testing"

	"github.com/galleyproject/galley/pkg/resource"
)

type stringerNotifier struct{ id string }

func (s stringerNotifier) String() string { return s.id }

func TestNotifierIdentity_Resource(t *testing.T) {
	res := &resource.Resource{Type: "service", Name: "nginx"}

	if id := NotifierIdentity(res); id != "service[nginx]" {
		t.Errorf("Expected declared resource name, got %q", id)
	}
}

func TestNotifierIdentity_Stringer(t *testing.T) {
	if id := NotifierIdentity(stringerNotifier{id: "template[/etc/app.conf]"}); id != "template[/etc/app.conf]" {
		t.Errorf("Expected Stringer form, got %q", id)
	}
}

func TestNotifierIdentity_Fallback(t *testing.T) {
	if id := NotifierIdentity(42); id != "42" {
		t.Errorf("Expected fmt.Sprint fallback, got %q", id)
	}
}

func TestNotificationRegistry_RecordAndFor(t *testing.T) {
	registry := NewNotificationRegistry()
	res := &resource.Resource{Type: "template", Name: "/etc/app.conf"}

	registry.Record(Notification{Notifier: res, Action: "restart", Target: "service[app]"})
	registry.Record(Notification{Notifier: res, Action: "reload", Target: "service[proxy]"})

	pending := registry.For("template[/etc/app.conf]")
	if len(pending) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(pending))
	}
	if pending[0].Action != "restart" || pending[1].Action != "reload" {
		t.Errorf("Expected trigger order preserved, got %v", pending)
	}
}

func TestNotificationRegistry_For_UnknownIdentity(t *testing.T) {
	registry := NewNotificationRegistry()

	pending := registry.For("service[ghost]")
	if len(pending) != 0 {
		t.Errorf("Expected empty result for unknown identity, got %d", len(pending))
	}
	// Querying must not create an entry.
	if registry.Len() != 0 {
		t.Errorf("Expected no persisted entries after query, got %d", registry.Len())
	}
}

func TestNotificationRegistry_SameIdentityAcrossForms(t *testing.T) {
	registry := NewNotificationRegistry()
	res := &resource.Resource{Type: "service", Name: "nginx"}

	// One recorded via the resource instance, one via its string form.
	registry.Record(Notification{Notifier: res, Action: "restart", Target: "service[app]"})
	registry.Record(Notification{Notifier: "service[nginx]", Action: "reload", Target: "service[app]"})

	if got := len(registry.For("service[nginx]")); got != 2 {
		t.Errorf("Expected both forms keyed to one identity, got %d", got)
	}
}

func TestRunContext_NotificationTiersIndependent(t *testing.T) {
	rc, _, _ := newTestContext(fakeCollection{}, nil)
	res := &resource.Resource{Type: "service", Name: "nginx"}

	rc.NotifyImmediately(Notification{Notifier: res, Action: "restart", Target: "service[app]"})
	rc.NotifyDelayed(Notification{Notifier: res, Action: "reload", Target: "service[app]"})
	rc.NotifyDelayed(Notification{Notifier: res, Action: "restart", Target: "service[db]"})

	if got := len(rc.ImmediateNotifications(res)); got != 1 {
		t.Errorf("Expected 1 immediate notification, got %d", got)
	}
	if got := len(rc.DelayedNotifications(res)); got != 2 {
		t.Errorf("Expected 2 delayed notifications, got %d", got)
	}
}
