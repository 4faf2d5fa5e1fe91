// Package command defines launcher commands: their descriptor, the variants
// that can be executed and the table describing every known kind.
package command

import (
	"sync"

	"github.com/google/uuid"
)

// Descriptor field names reported in a Change.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldEnabled     = "enabled"
)

// Change is delivered to observers when a descriptor field changes value.
type Change struct {
	Field      string
	Descriptor *Descriptor
}

// Descriptor carries the identity and display data shared by every command.
// Fields are mutated through setters so observers (search indexes, the UI)
// learn about every effective change.
type Descriptor struct {
	mu          sync.Mutex
	id          uuid.UUID
	name        string
	description string
	enabled     bool
	observers   []func(Change)
}

// NewDescriptor returns an enabled descriptor with no ID assigned.
func NewDescriptor(name, description string) *Descriptor {
	return &Descriptor{name: name, description: description, enabled: true}
}

func (d *Descriptor) ID() uuid.UUID       { return d.get().id }
func (d *Descriptor) Name() string        { return d.get().name }
func (d *Descriptor) Description() string { return d.get().description }
func (d *Descriptor) Enabled() bool       { return d.get().enabled }

type snapshot struct {
	id          uuid.UUID
	name        string
	description string
	enabled     bool
}

func (d *Descriptor) get() snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return snapshot{d.id, d.name, d.description, d.enabled}
}

// Observe registers fn to be called after each effective change.
func (d *Descriptor) Observe(fn func(Change)) {
	d.mu.Lock()
	d.observers = append(d.observers, fn)
	d.mu.Unlock()
}

// SetID replaces the identity. Only the registry assigns IDs.
func (d *Descriptor) SetID(id uuid.UUID) {
	d.set(FieldID, func() bool {
		if d.id == id {
			return false
		}
		d.id = id
		return true
	})
}

// SetName updates the name; comparison is ordinal.
func (d *Descriptor) SetName(name string) {
	d.set(FieldName, func() bool {
		if d.name == name {
			return false
		}
		d.name = name
		return true
	})
}

// SetDescription updates the description; comparison is ordinal.
func (d *Descriptor) SetDescription(desc string) {
	d.set(FieldDescription, func() bool {
		if d.description == desc {
			return false
		}
		d.description = desc
		return true
	})
}

// SetEnabled toggles whether the command shows up in searches.
func (d *Descriptor) SetEnabled(enabled bool) {
	d.set(FieldEnabled, func() bool {
		if d.enabled == enabled {
			return false
		}
		d.enabled = enabled
		return true
	})
}

// set applies mutate under the lock and notifies observers outside it.
func (d *Descriptor) set(field string, mutate func() bool) {
	d.mu.Lock()
	changed := mutate()
	obs := append([]func(Change){}, d.observers...)
	d.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range obs {
		fn(Change{Field: field, Descriptor: d})
	}
}
