package ui

import (
	"strings"

	"github.com/VoxDroid/hotcmd/internal/controller"
	"github.com/VoxDroid/hotcmd/internal/search"
)

const help = "tab next \u00b7 enter run with defaults \u00b7 \u2191\u2193 select \u00b7 backspace undo \u00b7 esc clear/quit"

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.st.title.Render("hotcmd") + "\n\n")
	b.WriteString(m.promptLine() + "\n")
	b.WriteString(m.rows() + "\n")
	if m.status != "" {
		style := m.st.status
		if m.failed {
			style = m.st.err
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	if out := m.out.String(); out != "" {
		m.vp.SetContent(out)
		b.WriteString(m.st.output.Render(m.vp.View()) + "\n")
	}
	b.WriteString(m.st.dim.Render(help))
	return b.String()
}

// promptLine renders the trail as chips followed by the input.
func (m *Model) promptLine() string {
	var parts []string
	for _, t := range m.ctrl.Trail() {
		parts = append(parts, m.st.chip.Render(t))
	}
	parts = append(parts, m.st.prompt.Render("\u276f ")+m.input.View())
	return strings.Join(parts, m.st.dim.Render(" \u203a "))
}

func (m *Model) rows() string {
	var lines []string
	sel := m.ctrl.Selected()
	if m.ctrl.State() == controller.Idle {
		res := m.ctrl.Results()
		for _, r := range window(len(res), sel) {
			lines = append(lines, m.row(m.spans(res[r].Spans), r == sel))
		}
		if len(lines) == 0 && m.ctrl.Term() != "" {
			lines = append(lines, m.st.dim.Render("  no matching commands"))
		}
		return strings.Join(lines, "\n")
	}
	opts := m.ctrl.Options()
	for _, r := range window(len(opts), sel) {
		lines = append(lines, m.row(opts[r], r == sel))
	}
	if cur, ok := m.ctrl.CurrentStep(); ok && cur.Closed() && len(opts) == 0 {
		lines = append(lines, m.st.err.Render("  not one of "+strings.Join(cur.Options, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) row(text string, selected bool) string {
	if selected {
		return m.st.selected.Render(text)
	}
	return m.st.item.Render(text)
}

func (m *Model) spans(spans []search.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Highlight {
			b.WriteString(m.st.highlight.Render(s.Text))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// firstRow is the index of the first visible row keeping sel on screen.
func firstRow(n, sel int) int {
	if n <= maxRows || sel < maxRows {
		return 0
	}
	return min(sel-maxRows+1, n-maxRows)
}

// window lists the indices of the visible rows.
func window(n, sel int) []int {
	start := firstRow(n, sel)
	end := min(n, start+maxRows)
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
