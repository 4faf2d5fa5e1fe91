// Package ui is the Bubble Tea command bar: type to search, confirm to lock a
// command in and walk its steps, confirm the last step to run it.
package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/hotcmd/internal/builtin"
	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/controller"
	"github.com/VoxDroid/hotcmd/internal/registry"
	"github.com/VoxDroid/hotcmd/internal/utils"
)

// maxRows caps the result list.
const maxRows = 8

// Events is the part of the registry the bar listens to.
type Events interface {
	Subscribe(l registry.Listener) (unsubscribe func())
}

// Options configures the command bar.
type Options struct {
	Settings *builtin.Settings
	Output   *Output
	Logger   *slog.Logger
	// Events, when set, keeps the result list in step with the registry.
	Events Events
}

// ReloadedMsg reports the outcome of a reload the bar did not start.
type ReloadedMsg struct{ Err error }

// registryChangedMsg coalesces registry events into one refresh.
type registryChangedMsg struct{}

// SettingsChangedMsg tells the bar that config.toml changed on disk.
type SettingsChangedMsg struct{}

type editedMsg struct{ err error }

// Model is the Bubble Tea model of the command bar.
type Model struct {
	ctrl     *controller.Controller
	settings *builtin.Settings
	out      *Output
	input    textinput.Model
	vp       viewport.Model
	st       styles

	changes     chan struct{}
	unsubscribe func()

	width  int
	height int

	status   string
	failed   bool
	quitting bool
	editPath string
}

// New builds the bar over src.
func New(src controller.Source, o Options) *Model {
	if o.Settings == nil {
		o.Settings = builtin.NewSettings(config.Settings{}, func(config.Settings) error { return nil })
	}
	if o.Output == nil {
		o.Output = NewOutput(0)
	}
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Type a command"
	in.Focus()

	m := &Model{
		settings: o.Settings,
		out:      o.Output,
		input:    in,
		vp:       viewport.New(60, 6),
		st:       newStyles(o.Settings.Get().UI),
	}
	m.ctrl = controller.New(src,
		controller.WithLogger(o.Logger),
		controller.OnError(func(c command.Command, err error) {
			m.status = fmt.Sprintf("%s: %v", c.Descriptor().Name(), err)
			m.failed = true
		}),
		controller.OnFire(func(c command.Command) {
			if !m.failed {
				m.status = "ran " + c.Descriptor().Name()
			}
		}),
	)
	o.Settings.OnChange(func(s config.Settings) { m.st = newStyles(s.UI) })
	if o.Events != nil {
		m.changes = make(chan struct{}, 1)
		m.unsubscribe = o.Events.Subscribe(func(registry.Event) {
			// events may arrive from inside Update; never block the sender
			select {
			case m.changes <- struct{}{}:
			default:
			}
		})
	}
	return m
}

// Close stops listening to registry events.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// waitForChange blocks until the registry reports a change.
func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return registryChangedMsg{}
	}
}

// NewProgram constructs the tea.Program for the bar.
func NewProgram(m *Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Quit asks the bar to exit after the current update. The Quit built-in
// calls it.
func (m *Model) Quit() { m.quitting = true }

// EditFile defers opening path in the editor until the bar can hand the
// terminal over. It is the Configure built-in's editor.
func (m *Model) EditFile(path string) error {
	m.editPath = path
	return nil
}

// Controller exposes the dialogue state, mainly for tests.
func (m *Model) Controller() *controller.Controller { return m.ctrl }

func (m *Model) Init() tea.Cmd {
	m.ctrl.SetTerm("")
	return tea.Batch(textinput.Blink, m.waitForChange())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 4
		m.vp.Width = msg.Width - 4
		m.vp.Height = max(3, msg.Height-maxRows-8)
		return m, nil
	case ReloadedMsg:
		if msg.Err != nil {
			m.setStatus("reload failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("commands reloaded", false)
		}
		m.refresh()
		return m, nil
	case registryChangedMsg:
		m.refresh()
		return m, m.waitForChange()
	case editedMsg:
		if msg.err != nil {
			m.setStatus("editor: "+msg.err.Error(), true)
			return m, nil
		}
		m.reloadSettings()
		return m, nil
	case SettingsChangedMsg:
		m.reloadSettings()
		return m, nil
	case tea.KeyMsg:
		return m.key(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.ctrl.State() == controller.Idle && m.ctrl.Term() == "" {
			return m, tea.Quit
		}
		m.ctrl.UndoAll()
		return m.sync()
	case "tab":
		m.confirm(ctx, false)
		return m.sync()
	case "enter":
		m.confirm(ctx, true)
		return m.sync()
	case "backspace":
		if m.input.Value() == "" {
			m.ctrl.Undo()
			return m.sync()
		}
	case "up", "ctrl+p":
		m.ctrl.SelectPrevious()
		return m, nil
	case "down", "ctrl+n":
		m.ctrl.SelectNext()
		return m, nil
	case "pgup":
		m.ctrl.SelectFirst()
		return m, nil
	case "pgdown":
		m.ctrl.SelectLast()
		return m, nil
	case "ctrl+l":
		m.out.Reset()
		m.vp.SetContent("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.ctrl.Term() {
		m.ctrl.SetTerm(m.input.Value())
	}
	return m, cmd
}

func (m *Model) confirm(ctx context.Context, executeDefaults bool) {
	m.failed = false
	m.status = ""
	m.ctrl.Confirm(ctx, executeDefaults)
}

// sync copies controller state back into the widgets after a transition and
// hands the terminal to the editor or quits when a built-in asked for it.
func (m *Model) sync() (tea.Model, tea.Cmd) {
	m.input.SetValue(m.ctrl.Term())
	m.input.CursorEnd()
	m.input.Placeholder = "Type a command"
	if cur, ok := m.ctrl.CurrentStep(); ok {
		m.input.Placeholder = cur.Name
		if !cur.Required {
			m.input.Placeholder += " (" + cur.Default + ")"
		}
	}
	m.vp.SetContent(m.out.String())
	m.vp.GotoBottom()
	if m.quitting {
		return m, tea.Quit
	}
	if m.editPath != "" {
		path := m.editPath
		m.editPath = ""
		return m, tea.ExecProcess(utils.EditorCommand(path), func(err error) tea.Msg { return editedMsg{err} })
	}
	return m, nil
}

// refresh re-runs the search so results follow the registry. A locked
// command keeps its dialogue.
func (m *Model) refresh() {
	if m.ctrl.State() == controller.Idle {
		m.ctrl.SetTerm(m.ctrl.Term())
	}
}

func (m *Model) reloadSettings() {
	s, err := config.Load()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.settings.Replace(s)
	m.setStatus("settings reloaded", false)
}

func (m *Model) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}
