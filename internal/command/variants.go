package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/executor"
	"github.com/VoxDroid/hotcmd/internal/security"
	"github.com/VoxDroid/hotcmd/internal/step"
)

// ErrNoLauncher is returned when a command that needs the host runs without
// a Launcher.
var ErrNoLauncher = errors.New("no launcher configured")

// LaunchExecutable starts a program, detached from the launcher.
type LaunchExecutable struct {
	base
}

func newExecutable(d *Descriptor, cfg Config, deps Deps) (Command, error) {
	return &LaunchExecutable{base{
		desc:  d,
		kind:  KindExecutable,
		cfg:   cfg,
		steps: step.FromTemplate(cfg["args"]),
		deps:  deps,
	}}, nil
}

// Path returns the configured executable.
func (c *LaunchExecutable) Path() string { return c.cfg["path"] }

func (c *LaunchExecutable) Execute(ctx context.Context) error {
	if c.deps.Launcher == nil {
		return ErrNoLauncher
	}
	args, err := c.expand(c.cfg["args"])
	if err != nil {
		return fmt.Errorf("%s: %w", c.desc.Name(), err)
	}
	return c.deps.Launcher.Start(ctx, c.cfg["path"], executor.SplitArgs(args), c.cfg["workdir"])
}

// LaunchURL opens a templated URL in a browser.
type LaunchURL struct {
	base
}

func newURL(d *Descriptor, cfg Config, deps Deps) (Command, error) {
	return &LaunchURL{base{
		desc:  d,
		kind:  KindURL,
		cfg:   cfg,
		steps: step.FromTemplate(cfg["url"]),
		deps:  deps,
	}}, nil
}

// URL returns the unexpanded URL template.
func (c *LaunchURL) URL() string { return c.cfg["url"] }

// Resolve expands the URL template with the current step values.
func (c *LaunchURL) Resolve() (string, error) {
	u, err := c.expand(c.cfg["url"])
	if err != nil {
		return "", err
	}
	if err := security.CheckURL(u); err != nil {
		return "", err
	}
	return u, nil
}

func (c *LaunchURL) Execute(ctx context.Context) error {
	if c.deps.Launcher == nil {
		return ErrNoLauncher
	}
	u, err := c.Resolve()
	if err != nil {
		return fmt.Errorf("%s: %w", c.desc.Name(), err)
	}
	return c.deps.Launcher.OpenURL(ctx, u, c.cfg["browser"], executor.SplitArgs(c.cfg["args"]))
}

// RunShell runs a templated line through the platform shell.
type RunShell struct {
	base
}

func newShell(d *Descriptor, cfg Config, deps Deps) (Command, error) {
	return &RunShell{base{
		desc:  d,
		kind:  KindShell,
		cfg:   cfg,
		steps: step.FromTemplate(cfg["command"]),
		deps:  deps,
	}}, nil
}

// Line expands the command template with the current step values.
func (c *RunShell) Line() (string, error) {
	return c.expand(c.cfg["command"])
}

func (c *RunShell) Execute(ctx context.Context) error {
	if c.deps.Launcher == nil {
		return ErrNoLauncher
	}
	line, err := c.Line()
	if err != nil {
		return fmt.Errorf("%s: %w", c.desc.Name(), err)
	}
	if c.cfg["force"] != "true" {
		if err := security.CheckAllowed(line); err != nil {
			return fmt.Errorf("%s: %w", c.desc.Name(), err)
		}
	}
	if c.cfg["shell"] != "" {
		if e, ok := c.deps.Launcher.(*executor.Executor); ok {
			ex := *e
			ex.Shell = c.cfg["shell"]
			return ex.RunShell(ctx, line, c.cfg["workdir"], c.deps.stdout(), c.deps.stderr())
		}
	}
	return c.deps.Launcher.RunShell(ctx, line, c.cfg["workdir"], c.deps.stdout(), c.deps.stderr())
}

// maxAliasDepth bounds alias-to-alias resolution.
const maxAliasDepth = 8

// Alias runs another registered command. Its steps are the target's.
type Alias struct {
	base
	target uuid.UUID
}

func newAlias(d *Descriptor, cfg Config, deps Deps) (Command, error) {
	id, err := parseID(cfg["target"])
	if err != nil {
		return nil, err
	}
	return &Alias{base: base{desc: d, kind: KindAlias, cfg: cfg, deps: deps}, target: id}, nil
}

// Target returns the ID of the aliased command.
func (a *Alias) Target() uuid.UUID { return a.target }

// Resolve follows the alias to a non-alias command.
func (a *Alias) Resolve() (Command, error) {
	if a.deps.Resolver == nil {
		return nil, fmt.Errorf("alias %s: no resolver configured", a.desc.Name())
	}
	var cur Command = a
	for i := 0; i < maxAliasDepth; i++ {
		al, ok := cur.(*Alias)
		if !ok {
			return cur, nil
		}
		if al.target == a.desc.ID() {
			return nil, fmt.Errorf("alias %s refers to itself", a.desc.Name())
		}
		next, ok := a.deps.Resolver.Get(al.target)
		if !ok {
			return nil, fmt.Errorf("alias %s: target %s not found", a.desc.Name(), al.target)
		}
		cur = next
	}
	return nil, fmt.Errorf("alias %s: too many levels of indirection", a.desc.Name())
}

func (a *Alias) Steps() *step.Chain {
	t, err := a.Resolve()
	if err != nil {
		return nil
	}
	return t.Steps()
}

func (a *Alias) Execute(ctx context.Context) error {
	t, err := a.Resolve()
	if err != nil {
		return err
	}
	return t.Execute(ctx)
}

// Func is an internal command backed by a Go function. It is never persisted.
type Func struct {
	desc  *Descriptor
	steps *step.Chain
	fn    func(ctx context.Context, values map[string]string) error
}

// NewInternal returns an internal command with a fixed id. chain may be nil.
func NewInternal(id uuid.UUID, name, description string, chain *step.Chain, fn func(ctx context.Context, values map[string]string) error) *Func {
	d := NewDescriptor(name, description)
	d.SetID(id)
	return &Func{desc: d, steps: chain, fn: fn}
}

func (f *Func) Descriptor() *Descriptor { return f.desc }
func (f *Func) Kind() Kind              { return KindInternal }
func (f *Func) Config() Config          { return Config{} }
func (f *Func) Steps() *step.Chain      { return f.steps }
func (f *Func) Internal() bool          { return true }

func (f *Func) Execute(ctx context.Context) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx, f.steps.Values())
}
