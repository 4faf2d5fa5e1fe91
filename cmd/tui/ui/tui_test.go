package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/builtin"
	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/controller"
	"github.com/VoxDroid/hotcmd/internal/registry"
	"github.com/VoxDroid/hotcmd/internal/step"
	"github.com/VoxDroid/hotcmd/internal/storage"
)

type spy struct {
	runs   int
	values map[string]string
	err    error
}

func (p *spy) fn(_ context.Context, v map[string]string) error {
	p.runs++
	p.values = v
	return p.err
}

func newBar(t *testing.T, cmds ...command.Command) (*Model, *registry.Manager) {
	t.Helper()
	reg := registry.New(storage.NewMemStore())
	for _, c := range cmds {
		reg.Register(c)
	}
	m := New(reg, Options{Events: reg})
	t.Cleanup(m.Close)
	m.Init()
	return m, reg
}

// drained reports whether a registry change was pending, consuming it.
func drained(m *Model) bool {
	select {
	case <-m.changes:
		return true
	default:
		return false
	}
}

func press(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func typeText(m *Model, s string) {
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestTypeLockAndRun(t *testing.T) {
	p := &spy{}
	m, _ := newBar(t, command.NewInternal(uuid.New(), "Echo", "", step.FromTemplate("{text}"), p.fn))

	typeText(m, "ec")
	if len(m.Controller().Results()) != 1 {
		t.Fatalf("expected one result, got %d", len(m.Controller().Results()))
	}
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Controller().State() != controller.AwaitingStep {
		t.Fatalf("expected command locked in")
	}
	if m.input.Value() != "" || m.input.Placeholder != "text" {
		t.Fatalf("expected cleared input asking for text, got %q / %q", m.input.Value(), m.input.Placeholder)
	}
	if !strings.Contains(m.View(), "Echo") {
		t.Fatalf("expected trail in view:\n%s", m.View())
	}

	typeText(m, "hello")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if p.runs != 1 || p.values["text"] != "hello" {
		t.Fatalf("expected run with hello, got %d %v", p.runs, p.values)
	}
	if m.status != "ran Echo" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestEnterRunsWithDefaults(t *testing.T) {
	p := &spy{}
	m, _ := newBar(t, command.NewInternal(uuid.New(), "Open Docs", "", step.FromTemplate("{pkg:fmt}"), p.fn))
	typeText(m, "OD")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if p.runs != 1 || p.values["pkg"] != "fmt" {
		t.Fatalf("expected immediate run with default, got %d %v", p.runs, p.values)
	}
}

func TestBackspaceOnEmptyUndoes(t *testing.T) {
	p := &spy{}
	m, _ := newBar(t, command.NewInternal(uuid.New(), "Clone", "", step.FromTemplate("{owner}{repo}"), p.fn))
	typeText(m, "clone")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "golang")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Controller().Trail(); len(got) != 2 {
		t.Fatalf("expected two trail entries, got %v", got)
	}

	typeText(m, "x")
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Controller().Trail(); len(got) != 2 {
		t.Fatalf("backspace with text must edit the text, got trail %v", got)
	}
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Controller().Trail(); len(got) != 1 {
		t.Fatalf("expected undo to the first step, got %v", got)
	}
	if m.input.Placeholder != "owner" {
		t.Fatalf("unexpected placeholder %q", m.input.Placeholder)
	}
}

func TestEscClearsThenQuits(t *testing.T) {
	m, _ := newBar(t, command.NewInternal(uuid.New(), "Clone", "", step.FromTemplate("{owner}"), nil))
	typeText(m, "clone")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if isQuit(press(m, tea.KeyMsg{Type: tea.KeyEsc})) {
		t.Fatalf("first esc must only clear")
	}
	if m.Controller().State() != controller.Idle || m.input.Value() != "" {
		t.Fatalf("expected idle bar with empty input")
	}
	if !isQuit(press(m, tea.KeyMsg{Type: tea.KeyEsc})) {
		t.Fatalf("expected esc on an empty bar to quit")
	}
}

func TestErrorsShowInStatus(t *testing.T) {
	p := &spy{err: errors.New("boom")}
	m, _ := newBar(t, command.NewInternal(uuid.New(), "Fail", "", nil, p.fn))
	typeText(m, "fail")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.failed || m.status != "Fail: boom" {
		t.Fatalf("unexpected status %q failed=%v", m.status, m.failed)
	}
}

func TestBuiltinsDriveTheBar(t *testing.T) {
	reg := registry.New(storage.NewMemStore())
	live := builtin.NewSettings(config.Settings{UI: config.UISettings{Theme: "dark", Accent: "cyan"}}, func(config.Settings) error { return nil })
	m := New(reg, Options{Settings: live})
	builtin.Register(reg, builtin.Options{Registry: reg, Settings: live, Quit: m.Quit, Edit: m.EditFile})
	m.Init()

	typeText(m, "Set Theme")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "light")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if live.Get().UI.Theme != "light" {
		t.Fatalf("expected theme saved, got %q", live.Get().UI.Theme)
	}
	want := newStyles(config.UISettings{Theme: "light", Accent: "cyan"})
	if m.st.item.GetForeground() != want.item.GetForeground() {
		t.Fatalf("expected styles to follow the theme")
	}

	typeText(m, "quit")
	if !isQuit(press(m, tea.KeyMsg{Type: tea.KeyEnter})) {
		t.Fatalf("expected Quit to end the program")
	}
}

func TestConfigureHandsOverToEditor(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	reg := registry.New(storage.NewMemStore())
	live := builtin.NewSettings(config.Settings{}, nil)
	m := New(reg, Options{Settings: live})
	builtin.Register(reg, builtin.Options{Settings: live, Edit: m.EditFile})
	m.Init()

	typeText(m, "configure")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.editPath != "" {
		t.Fatalf("expected an editor command and no pending edit")
	}
	_, _ = m.Update(editedMsg{err: errors.New("exit 1")})
	if !m.failed {
		t.Fatalf("expected editor failure in status")
	}
}

func TestReloadedRefreshesResults(t *testing.T) {
	m, reg := newBar(t)
	typeText(m, "docs")
	if len(m.Controller().Results()) != 0 {
		t.Fatalf("expected no results yet")
	}
	c := command.NewInternal(uuid.New(), "Docs", "", nil, nil)
	reg.Register(c)
	_, _ = m.Update(ReloadedMsg{})
	if len(m.Controller().Results()) != 1 || m.status != "commands reloaded" {
		t.Fatalf("expected refreshed results, got %d (%q)", len(m.Controller().Results()), m.status)
	}
}

func TestSelectionKeys(t *testing.T) {
	m, _ := newBar(t,
		command.NewInternal(uuid.New(), "Git Add", "", nil, nil),
		command.NewInternal(uuid.New(), "Git Commit", "", nil, nil),
	)
	typeText(m, "git")
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Controller().Selected() != 1 {
		t.Fatalf("expected second row selected")
	}
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Controller().Selected() != 0 {
		t.Fatalf("expected first row selected")
	}
}

func TestSettingsFileChangeRestyles(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	live := builtin.NewSettings(config.Settings{UI: config.UISettings{Theme: "dark", Accent: "cyan"}}, nil)
	m := New(registry.New(storage.NewMemStore()), Options{Settings: live})
	if err := config.Save(config.Settings{UI: config.UISettings{Theme: "light", Accent: "red"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, _ = m.Update(SettingsChangedMsg{})
	if live.Get().UI.Accent != "red" {
		t.Fatalf("expected settings reloaded, got %+v", live.Get().UI)
	}
	if m.st.chip.GetForeground() != newStyles(config.UISettings{Theme: "light", Accent: "red"}).chip.GetForeground() {
		t.Fatalf("expected accent applied to styles")
	}
}

func TestRegistryEventsRefreshResults(t *testing.T) {
	m, reg := newBar(t)
	typeText(m, "docs")
	reg.Register(command.NewInternal(uuid.New(), "Docs", "", nil, nil))

	msg := m.waitForChange()()
	if _, ok := msg.(registryChangedMsg); !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	_, next := m.Update(msg)
	if len(m.Controller().Results()) != 1 {
		t.Fatalf("expected the new command in results, got %d", len(m.Controller().Results()))
	}
	if next == nil {
		t.Fatalf("expected the bar to keep listening")
	}

	m.Close()
	reg.Register(command.NewInternal(uuid.New(), "Docs Two", "", nil, nil))
	if drained(m) {
		t.Fatalf("closed bar must not hear events")
	}
}

func TestReloadBuiltinNotifiesBar(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	reg := registry.New(store)
	m := New(reg, Options{Events: reg})
	t.Cleanup(m.Close)
	builtin.Register(reg, builtin.Options{Registry: reg})
	m.Init()
	drained(m)

	rec := command.Record{ID: uuid.New(), Kind: command.KindURL, Name: "Docs", Enabled: true, Config: command.Config{"url": "https://go.dev"}}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	typeText(m, "reload")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !drained(m) {
		t.Fatalf("expected reload events to reach the bar")
	}
	typeText(m, "docs")
	if len(m.Controller().Results()) != 1 {
		t.Fatalf("expected reloaded command, got %d", len(m.Controller().Results()))
	}
}
