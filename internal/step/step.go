// Package step models the parameter prompts of a command as a chain of steps.
package step

import "strings"

// None marks the absence of a step index.
const None = -1

// Step is one prompt in a command's parameter dialogue. Data and IsSet only
// change through Chain.SetData and Chain.Reset.
type Step struct {
	Name     string
	Options  []string // nil means free text
	Default  string
	Required bool

	data  string
	isSet bool
	next  int
	prev  int
}

// Data returns the confirmed value, or "" when unset.
func (s Step) Data() string { return s.data }

// IsSet reports whether a value has been accepted.
func (s Step) IsSet() bool { return s.isSet }

// Closed reports whether the step only accepts one of its Options.
func (s Step) Closed() bool { return s.Options != nil }

// Chain owns the steps of one command. Steps are addressed by index and
// linked forward through next and backward through prev.
type Chain struct {
	steps []Step
}

// Build creates a chain with one step per token, linked in order.
func Build(tokens []TokenBit) *Chain {
	c := &Chain{}
	for _, t := range tokens {
		c.Append(t)
	}
	return c
}

// Append adds a step built from t at the end of the chain and returns its index.
func (c *Chain) Append(t TokenBit) int {
	s := Step{
		Name:     t.Name,
		Options:  t.Options,
		Required: t.Default == nil,
		next:     None,
		prev:     None,
	}
	if t.Default != nil {
		s.Default = *t.Default
	}
	idx := len(c.steps)
	if idx > 0 {
		s.prev = idx - 1
		c.steps[idx-1].next = idx
	}
	c.steps = append(c.steps, s)
	return idx
}

// Len returns the number of steps.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.steps)
}

// Head returns the index of the first step or None for an empty chain.
func (c *Chain) Head() int {
	if c.Len() == 0 {
		return None
	}
	return 0
}

// At returns a copy of the step at i.
func (c *Chain) At(i int) (Step, bool) {
	if !c.valid(i) {
		return Step{}, false
	}
	return c.steps[i], true
}

// Next returns the index following i, or None.
func (c *Chain) Next(i int) int {
	if !c.valid(i) {
		return None
	}
	return c.steps[i].next
}

// Previous returns the index preceding i, or None.
func (c *Chain) Previous(i int) int {
	if !c.valid(i) {
		return None
	}
	return c.steps[i].prev
}

// SetData offers value to step i. The value is accepted only when it is not
// blank and, for a closed step, equals one of the options ignoring case.
// A rejected value leaves the step as it was.
func (c *Chain) SetData(i int, value string) {
	if !c.valid(i) {
		return
	}
	s := &c.steps[i]
	if strings.TrimSpace(value) == "" {
		return
	}
	if s.Options != nil && !containsFold(s.Options, value) {
		return
	}
	s.data = value
	s.isSet = true
}

// Reset clears step i and every step after it.
func (c *Chain) Reset(i int) {
	for ; c.valid(i); i = c.steps[i].next {
		c.steps[i].data = ""
		c.steps[i].isSet = false
	}
}

// Values returns the effective value of every step keyed by name: the
// confirmed data, or the default of an unset optional step.
func (c *Chain) Values() map[string]string {
	out := make(map[string]string, c.Len())
	if c == nil {
		return out
	}
	for _, s := range c.steps {
		switch {
		case s.isSet:
			out[s.Name] = s.data
		case !s.Required:
			out[s.Name] = s.Default
		}
	}
	return out
}

func (c *Chain) valid(i int) bool {
	return c != nil && i >= 0 && i < len(c.steps)
}

func containsFold(options []string, v string) bool {
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return true
		}
	}
	return false
}
