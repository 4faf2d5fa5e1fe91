// Package builtin provides the internal commands every session starts with.
// They are registered, never persisted, and keep fixed IDs so aliases and
// history can refer to them across runs.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/executor"
	"github.com/VoxDroid/hotcmd/internal/step"
	"github.com/VoxDroid/hotcmd/internal/utils"
)

// Fixed IDs of the built-in commands.
var (
	ReloadID    = uuid.MustParse("5b8b0485-cf01-4326-b87a-6f92e507ef3b")
	QuitID      = uuid.MustParse("48e0e87d-ccae-46ff-8f21-e9a356f471f1")
	ThemeID     = uuid.MustParse("4b189cd0-5ca8-46ff-9857-2202db8902b3")
	AccentID    = uuid.MustParse("32c2d398-75ea-41f9-8564-8050ca1face4")
	ConfigureID = uuid.MustParse("806bdc23-f28e-4371-a8fe-1ae570961f25")
	GithubID    = uuid.MustParse("43475e93-aaee-4683-b4d1-a251c4c5578d")
	IssuesID    = uuid.MustParse("bf6ab307-d426-4c8a-a375-ad4fa7b83aed")
	ReleasesID  = uuid.MustParse("14c811ff-f46f-4f9f-94eb-e85894ef20de")
)

// ProjectURL is opened by the Github command.
const ProjectURL = "https://github.com/VoxDroid/hotcmd"

// Reloader is the part of the registry the Reload command needs.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Registrar receives the built-in commands.
type Registrar interface {
	Register(cmd command.Command)
}

// Options wires the built-ins to the running session. A nil Quit or
// Registry makes the matching command a no-op; Edit defaults to
// utils.OpenEditor.
type Options struct {
	Registry Reloader
	Launcher executor.Launcher
	Settings *Settings
	Quit     func()
	Edit     func(path string) error
}

// Settings guards the live settings shared by the built-ins and the UI.
type Settings struct {
	mu       sync.Mutex
	cur      config.Settings
	save     func(config.Settings) error
	onChange []func(config.Settings)
}

// NewSettings wraps s. A nil save writes config.toml.
func NewSettings(s config.Settings, save func(config.Settings) error) *Settings {
	if save == nil {
		save = config.Save
	}
	return &Settings{cur: s, save: save}
}

// Get returns a copy of the current settings.
func (s *Settings) Get() config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// OnChange registers fn to run after every successful Update.
func (s *Settings) OnChange(fn func(config.Settings)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Update applies fn to a copy of the settings, persists it and notifies
// listeners. The live settings change only when saving succeeds.
func (s *Settings) Update(fn func(*config.Settings)) error {
	s.mu.Lock()
	next := s.cur
	fn(&next)
	if err := s.save(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cur = next
	hooks := append(([]func(config.Settings))(nil), s.onChange...)
	s.mu.Unlock()
	for _, h := range hooks {
		h(next)
	}
	return nil
}

// Replace swaps the live settings without saving, e.g. after the file was
// edited by hand.
func (s *Settings) Replace(next config.Settings) {
	s.mu.Lock()
	s.cur = next
	hooks := append(([]func(config.Settings))(nil), s.onChange...)
	s.mu.Unlock()
	for _, h := range hooks {
		h(next)
	}
}

// Commands builds the built-in commands.
func Commands(o Options) []command.Command {
	return []command.Command{
		command.NewInternal(ReloadID, "Reload", "Reload commands from the database", nil, o.reload),
		command.NewInternal(QuitID, "Quit", "Quit hotcmd", nil, o.quit),
		command.NewInternal(ThemeID, "Set Theme", "Switch between light and dark", choice("Theme", config.Themes), o.setTheme),
		command.NewInternal(AccentID, "Set Accent", "Change the accent colour", choice("Accent", config.Accents), o.setAccent),
		command.NewInternal(ConfigureID, "Configure", "Edit config.toml", nil, o.configure),
		command.NewInternal(GithubID, "Github", "Open the hotcmd repository", nil, o.open(ProjectURL)),
		command.NewInternal(IssuesID, "Issues", "Report a problem or request a feature", nil, o.open(ProjectURL+"/issues")),
		command.NewInternal(ReleasesID, "Releases", "See what changed", nil, o.open(ProjectURL+"/releases")),
	}
}

// Register adds every built-in to r.
func Register(r Registrar, o Options) {
	for _, c := range Commands(o) {
		r.Register(c)
	}
}

func choice(name string, options []string) *step.Chain {
	return step.Build([]step.TokenBit{{Name: name, Options: append([]string(nil), options...)}})
}

func (o Options) reload(ctx context.Context, _ map[string]string) error {
	if o.Registry == nil {
		return nil
	}
	return o.Registry.Reload(ctx)
}

func (o Options) quit(context.Context, map[string]string) error {
	if o.Quit != nil {
		o.Quit()
	}
	return nil
}

func (o Options) setTheme(_ context.Context, v map[string]string) error {
	if o.Settings == nil {
		return errors.New("settings unavailable")
	}
	return o.Settings.Update(func(s *config.Settings) { s.UI.Theme = v["Theme"] })
}

func (o Options) setAccent(_ context.Context, v map[string]string) error {
	if o.Settings == nil {
		return errors.New("settings unavailable")
	}
	return o.Settings.Update(func(s *config.Settings) { s.UI.Accent = v["Accent"] })
}

// configure opens config.toml in the user's editor, writing the current
// settings first when the file does not exist yet, and applies the result.
func (o Options) configure(context.Context, map[string]string) error {
	path, err := config.SettingsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cur := config.Settings{}
		if o.Settings != nil {
			cur = o.Settings.Get()
		}
		if err := config.Save(cur); err != nil {
			return err
		}
	}
	edit := o.Edit
	if edit == nil {
		edit = utils.OpenEditor
	}
	if err := edit(path); err != nil {
		return fmt.Errorf("edit settings: %w", err)
	}
	next, err := config.Load()
	if err != nil {
		return err
	}
	if o.Settings != nil {
		o.Settings.Replace(next)
	}
	return nil
}

func (o Options) open(url string) func(context.Context, map[string]string) error {
	return func(ctx context.Context, _ map[string]string) error {
		if o.Launcher == nil {
			return command.ErrNoLauncher
		}
		return o.Launcher.OpenURL(ctx, url, "", nil)
	}
}
