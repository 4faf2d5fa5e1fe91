package command

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/executor"
	"github.com/VoxDroid/hotcmd/internal/step"
)

// Kind tags a command variant.
type Kind string

// Built-in kinds. Further kinds may be added with RegisterKind.
const (
	KindExecutable Kind = "executable"
	KindURL        Kind = "url"
	KindShell      Kind = "shell"
	KindAlias      Kind = "alias"
	KindInternal   Kind = "internal"
)

// Config holds the kind-specific settings of a command keyed by field.
type Config map[string]string

// Clone returns an independent copy of c.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Command is a named, executable action with an optional step chain.
type Command interface {
	Descriptor() *Descriptor
	Kind() Kind
	Config() Config
	// Steps returns the parameter chain, or nil when the command takes none.
	Steps() *step.Chain
	Execute(ctx context.Context) error
	// Internal commands live only for the session and are never persisted.
	Internal() bool
}

// Resolver looks commands up by ID. The registry satisfies it.
type Resolver interface {
	Get(id uuid.UUID) (Command, bool)
}

// Deps are the collaborators handed to command constructors.
type Deps struct {
	Launcher executor.Launcher
	Resolver Resolver
	Stdout   io.Writer
	Stderr   io.Writer
}

func (d Deps) stdout() io.Writer {
	if d.Stdout == nil {
		return io.Discard
	}
	return d.Stdout
}

func (d Deps) stderr() io.Writer {
	if d.Stderr == nil {
		return io.Discard
	}
	return d.Stderr
}

type base struct {
	desc  *Descriptor
	kind  Kind
	cfg   Config
	steps *step.Chain
	deps  Deps
}

func (b *base) Descriptor() *Descriptor { return b.desc }
func (b *base) Kind() Kind              { return b.kind }
func (b *base) Config() Config          { return b.cfg.Clone() }
func (b *base) Steps() *step.Chain      { return b.steps }
func (b *base) Internal() bool          { return false }

// expand fills the template's tokens from the step chain.
func (b *base) expand(template string) (string, error) {
	return step.Expand(template, b.steps.Values())
}

// IsInternal reports whether c must stay out of persistent storage.
func IsInternal(c Command) bool {
	return c != nil && c.Internal()
}

// HasSteps reports whether c prompts for parameters.
func HasSteps(c Command) bool {
	return c != nil && c.Steps().Len() > 0
}
