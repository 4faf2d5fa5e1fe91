package registry

import (
	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
)

// EventType identifies a lifecycle event.
type EventType int

// Lifecycle events fired by the Manager.
const (
	Registered EventType = iota
	Created
	Saved
	Deleted
	Loaded
	// Changed fires when the descriptor of an indexed command is edited in
	// place; Event.Field names the field.
	Changed
)

func (t EventType) String() string {
	switch t {
	case Registered:
		return "registered"
	case Created:
		return "created"
	case Saved:
		return "saved"
	case Deleted:
		return "deleted"
	case Loaded:
		return "loaded"
	case Changed:
		return "changed"
	}
	return "unknown"
}

// Event describes a change to the index. Command is nil for Deleted.
type Event struct {
	Type    EventType
	ID      uuid.UUID
	Field   string
	Command command.Command
}

// Listener receives events synchronously on the goroutine that caused them.
type Listener func(Event)

type subscriber struct {
	id int
	fn Listener
}

// Subscribe registers l and returns a function that removes it.
func (m *Manager) Subscribe(l Listener) (unsubscribe func()) {
	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: l})
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// emit delivers events in order. It must be called without m.mu held.
func (m *Manager) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	subs := append([]subscriber(nil), m.subs...)
	m.mu.Unlock()
	for _, e := range events {
		m.log.Debug("registry event", "event", e.Type.String(), "id", e.ID)
		for _, s := range subs {
			s.fn(e)
		}
	}
}

func event(t EventType, c command.Command) Event {
	return Event{Type: t, ID: c.Descriptor().ID(), Command: c}
}
