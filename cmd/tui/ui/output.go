package ui

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var (
	oscRe = regexp.MustCompile(`\x1b\][^\x07]*\x07`)
	csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
)

// cleanOutput keeps SGR colour codes and drops every other control sequence
// so command output cannot move the cursor or leave the alternate screen.
// Cursor-forward becomes spaces. Line endings are normalised to LF.
func cleanOutput(in string) string {
	out := strings.ReplaceAll(in, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = oscRe.ReplaceAllString(out, "")
	return csiRe.ReplaceAllStringFunc(out, func(s string) string {
		switch s[len(s)-1] {
		case 'm':
			return s
		case 'C':
			n, err := strconv.Atoi(strings.TrimLeft(s[2:len(s)-1], "?"))
			if err != nil || n < 1 {
				n = 1
			}
			return strings.Repeat(" ", n)
		default:
			return ""
		}
	})
}

// Output collects what executed commands print, keeping the last max lines.
// It is written by commands and read by the view.
type Output struct {
	mu      sync.Mutex
	lines   []string
	partial string
	max     int
}

// NewOutput returns an Output keeping up to max lines.
func NewOutput(max int) *Output {
	if max <= 0 {
		max = 200
	}
	return &Output{max: max}
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	text := o.partial + cleanOutput(string(p))
	parts := strings.Split(text, "\n")
	o.partial = parts[len(parts)-1]
	o.lines = append(o.lines, parts[:len(parts)-1]...)
	if over := len(o.lines) - o.max; over > 0 {
		o.lines = append([]string(nil), o.lines[over:]...)
	}
	return len(p), nil
}

// String returns the kept lines, including an unterminated last line.
func (o *Output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	all := o.lines
	if o.partial != "" {
		all = append(append([]string(nil), o.lines...), o.partial)
	}
	return strings.Join(all, "\n")
}

// Reset forgets everything written so far.
func (o *Output) Reset() {
	o.mu.Lock()
	o.lines, o.partial = nil, ""
	o.mu.Unlock()
}
