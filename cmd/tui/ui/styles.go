package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/VoxDroid/hotcmd/internal/config"
)

var accents = map[string]string{
	"amber":   "#f59e0b",
	"blue":    "#3b82f6",
	"cyan":    "#0ea5a4",
	"green":   "#22c55e",
	"magenta": "#d946ef",
	"red":     "#ef4444",
}

type palette struct {
	fg, dim, bg, err string
}

var themes = map[string]palette{
	"dark":  {fg: "#e2e8f0", dim: "#94a3b8", bg: "#0b1226", err: "#f87171"},
	"light": {fg: "#0f172a", dim: "#475569", bg: "#f8fafc", err: "#b91c1c"},
}

// styles is the rendered look for one theme and accent.
type styles struct {
	title     lipgloss.Style
	chip      lipgloss.Style
	prompt    lipgloss.Style
	item      lipgloss.Style
	selected  lipgloss.Style
	highlight lipgloss.Style
	dim       lipgloss.Style
	status    lipgloss.Style
	err       lipgloss.Style
	output    lipgloss.Style
}

func newStyles(ui config.UISettings) styles {
	p, ok := themes[ui.Theme]
	if !ok {
		p = themes["dark"]
	}
	accent, ok := accents[ui.Accent]
	if !ok {
		accent = accents["cyan"]
	}
	a := lipgloss.Color(accent)
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.bg)).Background(a).Padding(0, 1),
		chip:      lipgloss.NewStyle().Foreground(a).Bold(true),
		prompt:    lipgloss.NewStyle().Foreground(a),
		item:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)).PaddingLeft(2),
		selected:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)).Bold(true).BorderStyle(lipgloss.ThickBorder()).BorderLeft(true).BorderForeground(a).PaddingLeft(1),
		highlight: lipgloss.NewStyle().Foreground(a).Bold(true).Underline(true),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Italic(true),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)).Bold(true),
		output:    lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.dim)).Padding(0, 1),
	}
}
