// Package controller drives one command-bar session: typing searches the
// registry, confirming locks a command in and walks its steps, and the last
// confirmation executes it.
package controller

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/search"
	"github.com/VoxDroid/hotcmd/internal/step"
)

// State is the controller's position in the command dialogue.
type State int

const (
	// Idle means no command is locked; the term searches the registry.
	Idle State = iota
	// AwaitingStep means a command is locked and a step waits for input.
	AwaitingStep
)

func (s State) String() string {
	if s == AwaitingStep {
		return "awaiting-step"
	}
	return "idle"
}

// Source is what the controller needs from the registry.
type Source interface {
	Get(id uuid.UUID) (command.Command, bool)
	Search(term string, f search.Filter) []search.Result
}

// Controller is not safe for concurrent use; it belongs to the input loop.
type Controller struct {
	src     Source
	filter  search.Filter
	log     *slog.Logger
	onError func(command.Command, error)
	onFire  func(command.Command)

	term     string
	results  []search.Result
	options  []string
	selected int

	locked  command.Command
	current int
	trail   []string
}

// Option configures a Controller.
type Option func(*Controller)

// WithFilter sets the filter applied to registry searches.
func WithFilter(f search.Filter) Option {
	return func(c *Controller) { c.filter = f }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// OnError sets the hook told about execution failures.
func OnError(fn func(command.Command, error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// OnFire sets the hook called after every execution attempt.
func OnFire(fn func(command.Command)) Option {
	return func(c *Controller) { c.onFire = fn }
}

// New returns an idle controller over src.
func New(src Source, opts ...Option) *Controller {
	c := &Controller{
		src:      src,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		selected: -1,
		current:  step.None,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State reports whether a command is locked in.
func (c *Controller) State() State {
	if c.locked == nil {
		return Idle
	}
	return AwaitingStep
}

// Term returns the text typed since the last transition.
func (c *Controller) Term() string { return c.term }

// SetTerm replaces the typed text and refreshes results or options.
func (c *Controller) SetTerm(term string) {
	c.term = term
	c.refresh()
}

// Results returns the registry matches while Idle.
func (c *Controller) Results() []search.Result { return c.results }

// Options returns the filtered options of the current closed step.
func (c *Controller) Options() []string { return c.options }

// Selected returns the highlighted index into Results or Options, or -1.
func (c *Controller) Selected() int { return c.selected }

// Locked returns the command being walked, or nil.
func (c *Controller) Locked() command.Command { return c.locked }

// CurrentStep returns the step awaiting input.
func (c *Controller) CurrentStep() (step.Step, bool) {
	if c.locked == nil {
		return step.Step{}, false
	}
	return c.locked.Steps().At(c.current)
}

// Trail returns the locked command's name followed by the confirmed values.
func (c *Controller) Trail() []string {
	return append([]string(nil), c.trail...)
}

func (c *Controller) listLen() int {
	if c.State() == Idle {
		return len(c.results)
	}
	return len(c.options)
}

// SelectFirst highlights the first entry.
func (c *Controller) SelectFirst() {
	if c.listLen() > 0 {
		c.selected = 0
	}
}

// SelectLast highlights the last entry.
func (c *Controller) SelectLast() {
	if n := c.listLen(); n > 0 {
		c.selected = n - 1
	}
}

// SelectNext moves the highlight down, stopping at the last entry.
func (c *Controller) SelectNext() {
	if n := c.listLen(); n > 0 && c.selected < n-1 {
		c.selected++
	}
}

// SelectPrevious moves the highlight up, stopping at the first entry.
func (c *Controller) SelectPrevious() {
	if c.listLen() > 0 && c.selected > 0 {
		c.selected--
	}
}

// SelectNone clears the highlight so Confirm submits the typed text.
func (c *Controller) SelectNone() { c.selected = -1 }

// Confirm advances the dialogue. While Idle it locks in the highlighted
// result; otherwise it submits the highlighted option or the typed text to
// the current step. A required step that rejects the value keeps the
// controller where it is. With executeDefaults, the command fires instead
// of advancing when the next step is optional.
func (c *Controller) Confirm(ctx context.Context, executeDefaults bool) {
	if c.locked == nil {
		c.lockIn(ctx, executeDefaults)
		return
	}
	chain := c.locked.Steps()
	cur, ok := chain.At(c.current)
	if !ok {
		c.fire(ctx)
		return
	}
	value := c.term
	if cur.Closed() && c.selected >= 0 && c.selected < len(c.options) {
		value = c.options[c.selected]
	}
	chain.SetData(c.current, value)
	cur, _ = chain.At(c.current)
	if cur.Required && !cur.IsSet() {
		c.log.Debug("step rejected value", "step", cur.Name)
		return
	}

	next := chain.Next(c.current)
	if next == step.None || (executeDefaults && optional(chain, next)) {
		c.fire(ctx)
		return
	}
	c.trail = append(c.trail, effective(cur))
	c.current = next
	c.transition()
}

func (c *Controller) lockIn(ctx context.Context, executeDefaults bool) {
	if c.selected < 0 || c.selected >= len(c.results) {
		return
	}
	c.Lock(ctx, c.results[c.selected].ID, executeDefaults)
}

// Lock locks in the command with id directly, as if it had been selected
// and confirmed. It reports false when id is unknown or a command is
// already locked.
func (c *Controller) Lock(ctx context.Context, id uuid.UUID, executeDefaults bool) bool {
	if c.locked != nil {
		return false
	}
	cmd, ok := c.src.Get(id)
	if !ok {
		return false
	}
	c.locked = cmd
	chain := cmd.Steps()
	if chain.Len() == 0 || (executeDefaults && optional(chain, chain.Head())) {
		c.fire(ctx)
		return true
	}
	c.current = chain.Head()
	c.trail = []string{cmd.Descriptor().Name()}
	c.log.Debug("locked command", "name", cmd.Descriptor().Name())
	c.transition()
	return true
}

// fire executes the locked command and returns to Idle.
func (c *Controller) fire(ctx context.Context) {
	cmd := c.locked
	err := cmd.Execute(ctx)
	if err != nil {
		c.log.Error("command failed", "name", cmd.Descriptor().Name(), "err", err)
		if c.onError != nil {
			c.onError(cmd, err)
		}
	} else {
		c.log.Info("command executed", "name", cmd.Descriptor().Name())
	}
	if c.onFire != nil {
		c.onFire(cmd)
	}
	c.abandon()
}

// Undo steps back one step. It does nothing while text is typed. Undoing
// the first step releases the command.
func (c *Controller) Undo() {
	if c.term != "" || c.locked == nil {
		return
	}
	chain := c.locked.Steps()
	prev := chain.Previous(c.current)
	if prev == step.None {
		c.abandon()
		return
	}
	c.current = prev
	chain.Reset(prev)
	if len(c.trail) > 0 {
		c.trail = c.trail[:len(c.trail)-1]
	}
	c.transition()
}

// UndoAll releases the locked command and clears the term.
func (c *Controller) UndoAll() {
	c.abandon()
}

// abandon resets the locked command's chain and returns to Idle.
func (c *Controller) abandon() {
	if c.locked != nil {
		chain := c.locked.Steps()
		chain.Reset(chain.Head())
	}
	c.locked = nil
	c.current = step.None
	c.trail = nil
	c.transition()
}

// transition clears the term and refreshes the lists.
func (c *Controller) transition() {
	c.term = ""
	c.refresh()
}

func (c *Controller) refresh() {
	c.results, c.options = nil, nil
	if c.locked == nil {
		c.results = c.src.Search(c.term, c.filter)
	} else if cur, ok := c.CurrentStep(); ok && cur.Closed() {
		c.options = search.FilterOptions(cur.Options, c.term)
	}
	c.selected = -1
	if c.listLen() > 0 {
		c.selected = 0
	}
}

func optional(chain *step.Chain, i int) bool {
	s, ok := chain.At(i)
	return ok && !s.Required
}

func effective(s step.Step) string {
	if s.IsSet() {
		return s.Data()
	}
	return s.Default
}
