package builtin

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/controller"
	"github.com/VoxDroid/hotcmd/internal/registry"
	"github.com/VoxDroid/hotcmd/internal/search"
	"github.com/VoxDroid/hotcmd/internal/storage"
)

type fakeLauncher struct{ urls []string }

func (f *fakeLauncher) RunShell(context.Context, string, string, io.Writer, io.Writer) error {
	return nil
}

func (f *fakeLauncher) Start(context.Context, string, []string, string) error { return nil }

func (f *fakeLauncher) OpenURL(_ context.Context, url, _ string, _ []string) error {
	f.urls = append(f.urls, url)
	return nil
}

func find(t *testing.T, cmds []command.Command, id uuid.UUID) command.Command {
	t.Helper()
	for _, c := range cmds {
		if c.Descriptor().ID() == id {
			return c
		}
	}
	t.Fatalf("builtin %s not found", id)
	return nil
}

func TestAllBuiltinsAreInternalWithFixedIDs(t *testing.T) {
	a := Commands(Options{})
	b := Commands(Options{})
	require.Len(t, a, len(b))
	seen := map[uuid.UUID]bool{}
	for i, c := range a {
		require.True(t, c.Internal())
		require.Equal(t, b[i].Descriptor().ID(), c.Descriptor().ID())
		require.False(t, seen[c.Descriptor().ID()])
		seen[c.Descriptor().ID()] = true
	}
}

func TestReloadAndQuit(t *testing.T) {
	ctx := context.Background()
	rec := command.Record{ID: uuid.New(), Kind: command.KindURL, Name: "Docs", Enabled: true, Config: command.Config{"url": "https://go.dev"}}
	store := storage.NewMemStore()
	m := registry.New(store)
	quits := 0
	Register(m, Options{Registry: m, Quit: func() { quits++ }})
	require.NoError(t, store.Save(ctx, rec))

	cmds := m.All(search.Filter{})
	require.NoError(t, find(t, cmds, ReloadID).Execute(ctx))
	_, ok := m.Get(rec.ID)
	require.True(t, ok)

	require.NoError(t, find(t, cmds, QuitID).Execute(ctx))
	require.Equal(t, 1, quits)
}

func TestSetThemeThroughController(t *testing.T) {
	var saved []config.Settings
	live := NewSettings(config.Settings{UI: config.UISettings{Theme: "dark", Accent: "cyan"}}, func(s config.Settings) error {
		saved = append(saved, s)
		return nil
	})
	var seen string
	live.OnChange(func(s config.Settings) { seen = s.UI.Theme })

	m := registry.New(storage.NewMemStore())
	Register(m, Options{Settings: live})
	c := controller.New(m)
	ctx := context.Background()

	c.SetTerm("Set Theme")
	c.Confirm(ctx, false)
	require.Equal(t, controller.AwaitingStep, c.State())
	require.Equal(t, []string{"dark", "light"}, c.Options())

	c.SetTerm("li")
	c.Confirm(ctx, false)
	require.Equal(t, controller.Idle, c.State())
	require.Equal(t, "light", live.Get().UI.Theme)
	require.Equal(t, "cyan", live.Get().UI.Accent)
	require.Equal(t, "light", seen)
	require.Len(t, saved, 1)
}

func TestSetAccentKeepsSettingsWhenSaveFails(t *testing.T) {
	live := NewSettings(config.Settings{UI: config.UISettings{Accent: "cyan"}}, func(config.Settings) error {
		return errors.New("read-only")
	})
	cmd := find(t, Commands(Options{Settings: live}), AccentID)
	cmd.Steps().SetData(cmd.Steps().Head(), "red")
	require.EqualError(t, cmd.Execute(context.Background()), "read-only")
	require.Equal(t, "cyan", live.Get().UI.Accent)
}

func TestLinksUseLauncher(t *testing.T) {
	l := &fakeLauncher{}
	cmds := Commands(Options{Launcher: l})
	ctx := context.Background()
	require.NoError(t, find(t, cmds, GithubID).Execute(ctx))
	require.NoError(t, find(t, cmds, IssuesID).Execute(ctx))
	require.Equal(t, []string{ProjectURL, ProjectURL + "/issues"}, l.urls)

	require.ErrorIs(t, find(t, Commands(Options{}), ReleasesID).Execute(ctx), command.ErrNoLauncher)
}

func TestConfigureAppliesEditedFile(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	live := NewSettings(config.Settings{UI: config.UISettings{Theme: "dark", Accent: "cyan"}}, nil)
	edited := ""
	cmd := find(t, Commands(Options{
		Settings: live,
		Edit: func(path string) error {
			edited = path
			_, err := os.Stat(path)
			require.NoError(t, err, "file is written before the editor opens")
			return os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\naccent = \"red\"\n"), 0o644)
		},
	}), ConfigureID)

	require.NoError(t, cmd.Execute(context.Background()))
	want, err := config.SettingsPath()
	require.NoError(t, err)
	require.Equal(t, want, edited)
	require.Equal(t, "light", live.Get().UI.Theme)
	require.Equal(t, "red", live.Get().UI.Accent)
}
