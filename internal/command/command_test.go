package command

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/hotcmd/internal/security"
)

type launch struct {
	op, target string
	args       []string
	cwd        string
}

type fakeLauncher struct {
	calls []launch
}

func (f *fakeLauncher) RunShell(_ context.Context, command, cwd string, _ io.Writer, _ io.Writer) error {
	f.calls = append(f.calls, launch{op: "shell", target: command, cwd: cwd})
	return nil
}

func (f *fakeLauncher) Start(_ context.Context, path string, args []string, cwd string) error {
	f.calls = append(f.calls, launch{op: "start", target: path, args: args, cwd: cwd})
	return nil
}

func (f *fakeLauncher) OpenURL(_ context.Context, url, browser string, args []string) error {
	f.calls = append(f.calls, launch{op: "url", target: url, args: append([]string{browser}, args...)})
	return nil
}

type mapResolver map[uuid.UUID]Command

func (m mapResolver) Get(id uuid.UUID) (Command, bool) {
	c, ok := m[id]
	return c, ok
}

func TestDescriptorNotifiesOnlyOnChange(t *testing.T) {
	d := NewDescriptor("Github", "")
	var fields []string
	d.Observe(func(c Change) { fields = append(fields, c.Field) })

	d.SetName("Github")
	d.SetName("GitHub")
	d.SetEnabled(true)
	d.SetEnabled(false)
	d.SetDescription("open the site")
	d.SetDescription("open the site")

	require.Equal(t, []string{FieldName, FieldEnabled, FieldDescription}, fields)
	require.Equal(t, "GitHub", d.Name())
	require.False(t, d.Enabled())
}

func TestURLCommandBuildsStepsAndExpands(t *testing.T) {
	fl := &fakeLauncher{}
	cmd, err := New(KindURL, NewDescriptor("Search Repo", ""), Config{
		"url": "https://github.com/search?q={query}&type={type:code:[code,issues]}",
	}, Deps{Launcher: fl})
	require.NoError(t, err)

	chain := cmd.Steps()
	require.Equal(t, 2, chain.Len())
	head, _ := chain.At(chain.Head())
	require.Equal(t, "query", head.Name)
	require.True(t, head.Required)

	chain.SetData(chain.Head(), "hotcmd")
	require.NoError(t, cmd.Execute(context.Background()))
	require.Len(t, fl.calls, 1)
	require.Equal(t, "https://github.com/search?q=hotcmd&type=code", fl.calls[0].target)
}

func TestURLCommandMissingValue(t *testing.T) {
	fl := &fakeLauncher{}
	cmd, err := New(KindURL, NewDescriptor("Search", ""), Config{"url": "https://example.com/{q}"}, Deps{Launcher: fl})
	require.NoError(t, err)
	err = cmd.Execute(context.Background())
	require.ErrorContains(t, err, "missing parameters: q")
	require.Empty(t, fl.calls)
}

func TestURLCommandRejectsScheme(t *testing.T) {
	cmd, err := New(KindURL, NewDescriptor("Bad", ""), Config{"url": "javascript://alert(1)"}, Deps{Launcher: &fakeLauncher{}})
	require.NoError(t, err)
	require.ErrorIs(t, cmd.Execute(context.Background()), security.ErrBlocked)
}

func TestShellCommandScreensDangerousLines(t *testing.T) {
	fl := &fakeLauncher{}
	cmd, err := New(KindShell, NewDescriptor("Wipe", ""), Config{"command": "rm -rf /{dir}"}, Deps{Launcher: fl})
	require.NoError(t, err)
	cmd.Steps().SetData(0, "tmp")
	require.ErrorIs(t, cmd.Execute(context.Background()), security.ErrBlocked)
	require.Empty(t, fl.calls)

	forced, err := New(KindShell, NewDescriptor("Echo", ""), Config{"command": "echo {word:hi}", "force": "true"}, Deps{Launcher: fl})
	require.NoError(t, err)
	require.NoError(t, forced.Execute(context.Background()))
	require.Equal(t, "echo hi", fl.calls[0].target)
}

func TestExecutableSplitsArgs(t *testing.T) {
	fl := &fakeLauncher{}
	cmd, err := FromRecord(Record{
		ID:      uuid.New(),
		Kind:    KindExecutable,
		Name:    "Editor",
		Enabled: true,
		Config:  Config{"path": "code", "args": "--new-window '{dir:my dir}'"},
	}, Deps{Launcher: fl})
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(context.Background()))
	require.Equal(t, []string{"--new-window", "my dir"}, fl.calls[0].args)
}

func TestAliasResolvesTarget(t *testing.T) {
	fl := &fakeLauncher{}
	res := mapResolver{}
	target, err := New(KindURL, NewDescriptor("Docs", ""), Config{"url": "https://pkg.go.dev/{pkg}"}, Deps{Launcher: fl})
	require.NoError(t, err)
	target.Descriptor().SetID(uuid.New())
	res[target.Descriptor().ID()] = target

	alias, err := New(KindAlias, NewDescriptor("d", ""), Config{"target": target.Descriptor().ID().String()}, Deps{Resolver: res})
	require.NoError(t, err)
	require.Same(t, target.Steps(), alias.Steps())

	alias.Steps().SetData(0, "errors")
	require.NoError(t, alias.Execute(context.Background()))
	require.Equal(t, "https://pkg.go.dev/errors", fl.calls[0].target)
}

func TestAliasSelfReference(t *testing.T) {
	id := uuid.New()
	d := NewDescriptor("loop", "")
	d.SetID(id)
	res := mapResolver{}
	alias, err := New(KindAlias, d, Config{"target": id.String()}, Deps{Resolver: res})
	require.NoError(t, err)
	res[id] = alias
	require.ErrorContains(t, alias.Execute(context.Background()), "refers to itself")
	require.Nil(t, alias.Steps())
}

func TestKindValidation(t *testing.T) {
	_, err := New(KindURL, NewDescriptor("x", ""), Config{}, Deps{})
	require.ErrorContains(t, err, "url: value is required")

	_, err = New(KindURL, NewDescriptor("x", ""), Config{"url": "example.com"}, Deps{})
	require.ErrorContains(t, err, "absolute url")

	_, err = New(KindShell, NewDescriptor("x", ""), Config{"command": "ls", "force": "yes", "colour": "red"}, Deps{})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "force") && strings.Contains(err.Error(), "colour"))

	_, err = New(Kind("nope"), NewDescriptor("x", ""), Config{}, Deps{})
	require.ErrorContains(t, err, "unknown command kind")

	require.Error(t, RegisterKind(KindInfo{Kind: KindURL, New: newURL}))
}

func TestRecordRoundTrip(t *testing.T) {
	cmd, err := New(KindShell, NewDescriptor("List", "list files"), Config{"command": "ls -la"}, Deps{})
	require.NoError(t, err)
	cmd.Descriptor().SetID(uuid.New())
	cmd.Descriptor().SetEnabled(false)

	rec, err := ToRecord(cmd)
	require.NoError(t, err)
	back, err := FromRecord(rec, Deps{})
	require.NoError(t, err)
	require.Equal(t, cmd.Descriptor().ID(), back.Descriptor().ID())
	require.False(t, back.Descriptor().Enabled())
	require.Equal(t, "ls -la", back.Config()["command"])
}

func TestInternalCommandHasNoRecord(t *testing.T) {
	ran := false
	f := NewInternal(uuid.New(), "Quit", "", nil, func(context.Context, map[string]string) error {
		ran = true
		return nil
	})
	require.True(t, IsInternal(f))
	require.False(t, HasSteps(f))
	_, err := ToRecord(f)
	require.Error(t, err)
	require.NoError(t, f.Execute(context.Background()))
	require.True(t, ran)
}
