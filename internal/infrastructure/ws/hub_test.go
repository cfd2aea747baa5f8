package ws

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/ports"
)

type countingMetrics struct {
	opened int
	closed int
}

func (m *countingMetrics) ConnectionOpened() { m.opened++ }
func (m *countingMetrics) ConnectionClosed() { m.closed++ }

func TestHubPushReachesEveryConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	actor := ports.Actor{ID: "user_1"}
	first := newClient(hub, nil, actor)
	second := newClient(hub, nil, actor)
	hub.register(first)
	hub.register(second)

	hub.Push("user_1", ports.Event{Name: ports.EventNotification})
	hub.Push("offline", ports.Event{Name: ports.EventNotification})

	if len(first.send) != 1 || len(second.send) != 1 {
		t.Errorf("both connections should receive the event, got %d and %d", len(first.send), len(second.send))
	}
}

func TestHubUnregisterUnknownClient(t *testing.T) {
	metrics := &countingMetrics{}
	hub := NewHub(zerolog.Nop(), metrics)
	actor := ports.Actor{ID: "user_1"}
	known := newClient(hub, nil, actor)
	hub.register(known)
	hub.joinRoom("inq_1", known)

	// Connections that never registered, both for a user with live
	// connections and for one without.
	hub.unregister(newClient(hub, nil, actor))
	hub.unregister(newClient(hub, nil, ports.Actor{ID: "ghost"}))

	if metrics.closed != 0 {
		t.Errorf("gauge must not move for unknown clients, got %d", metrics.closed)
	}
	hub.Push("user_1", ports.Event{Name: ports.EventNotification})
	if len(known.send) != 1 {
		t.Errorf("registered connection must survive unknown unregisters")
	}
	if len(hub.rooms["inq_1"]) != 1 {
		t.Errorf("room membership must survive unknown unregisters")
	}
}

func TestHubUnregisterOnce(t *testing.T) {
	metrics := &countingMetrics{}
	hub := NewHub(zerolog.Nop(), metrics)
	known := newClient(hub, nil, ports.Actor{ID: "user_1"})
	hub.register(known)
	hub.joinRoom("inq_1", known)

	hub.unregister(known)
	hub.unregister(known)

	if metrics.closed != 1 {
		t.Errorf("disconnect should decrement the gauge once, got %d", metrics.closed)
	}
	if len(hub.rooms) != 0 {
		t.Errorf("empty rooms should be dropped on disconnect")
	}
	if len(hub.byUser) != 0 {
		t.Errorf("empty user sets should be dropped on disconnect")
	}
}
