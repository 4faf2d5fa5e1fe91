package command

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Record is the persisted shape of a command.
type Record struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Kind        Kind      `json:"kind" yaml:"kind"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled     bool      `json:"enabled" yaml:"enabled"`
	Config      Config    `json:"config,omitempty" yaml:"config,omitempty"`
}

// ToRecord captures c for storage. Internal commands have no record.
func ToRecord(c Command) (Record, error) {
	if c == nil {
		return Record{}, fmt.Errorf("nil command")
	}
	if c.Internal() {
		return Record{}, fmt.Errorf("%s is internal and cannot be stored", c.Descriptor().Name())
	}
	d := c.Descriptor()
	return Record{
		ID:          d.ID(),
		Kind:        c.Kind(),
		Name:        d.Name(),
		Description: d.Description(),
		Enabled:     d.Enabled(),
		Config:      c.Config(),
	}, nil
}

// FromRecord rebuilds a command. Only required fields are checked so a record
// written on another machine still loads when e.g. its executable is missing
// here; execution reports that instead.
func FromRecord(r Record, deps Deps) (Command, error) {
	info, ok := Lookup(r.Kind)
	if !ok {
		return nil, fmt.Errorf("record %s: unknown kind %q", r.ID, r.Kind)
	}
	for _, f := range info.Fields {
		if f.Required && strings.TrimSpace(r.Config[f.Key]) == "" {
			return nil, fmt.Errorf("record %s: %s is required", r.ID, f.Key)
		}
	}
	d := NewDescriptor(r.Name, r.Description)
	d.SetID(r.ID)
	d.SetEnabled(r.Enabled)
	cfg := r.Config.Clone()
	return info.New(d, cfg, deps)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}
