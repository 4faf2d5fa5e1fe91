// Package search matches command names against a typed term and produces
// highlight spans for display.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
)

// Span is a run of a command name, highlighted when it matched the term.
type Span struct {
	Text      string
	Highlight bool
}

// Result is one matching command with its name split into spans.
type Result struct {
	ID    uuid.UUID
	Name  string
	Spans []Span
}

// Filter narrows the candidate commands before matching.
type Filter struct {
	ExcludeInternal bool
	IncludeDisabled bool
}

// Allows reports whether c passes the filter.
func (f Filter) Allows(c command.Command) bool {
	if f.ExcludeInternal && c.Internal() {
		return false
	}
	if !f.IncludeDisabled && !c.Descriptor().Enabled() {
		return false
	}
	return true
}

// Apply returns the commands passing the filter, in order.
func (f Filter) Apply(cmds []command.Command) []command.Command {
	out := make([]command.Command, 0, len(cmds))
	for _, c := range cmds {
		if f.Allows(c) {
			out = append(out, c)
		}
	}
	return out
}

// Strategy matches a term against commands.
type Strategy interface {
	Search(cmds []command.Command, term string, f Filter) []Result
}

// Matcher is the two-tier strategy: an acronym match on capitals first,
// then a case-insensitive substring match.
type Matcher struct {
	// filler is the character class allowed between acronym initials.
	filler string
}

// Default admits '.', ':', lowercase letters, digits and whitespace
// between initials.
var Default Strategy = Matcher{filler: `[\.:a-z0-9\s]*`}

// Extended additionally admits brackets between initials so names such as
// "Set Theme (Dark)" still match on their capitals.
var Extended Strategy = Matcher{filler: `[\.:a-z0-9\s\(\)\[\]<>\{\}]*`}

// ByName returns the strategy called name, falling back to Default.
func ByName(name string) Strategy {
	if strings.EqualFold(name, "extended") {
		return Extended
	}
	return Default
}

// Search returns the commands whose names match term, in input order.
func (m Matcher) Search(cmds []command.Command, term string, f Filter) []Result {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	acronym := m.acronym(term)
	var out []Result
	for _, c := range cmds {
		if !f.Allows(c) {
			continue
		}
		name := c.Descriptor().Name()
		spans, ok := matchAcronym(acronym, name)
		if !ok {
			spans, ok = matchSubstring(term, name)
		}
		if ok {
			out = append(out, Result{ID: c.Descriptor().ID(), Name: name, Spans: spans})
		}
	}
	return out
}

// Match runs both tiers against a single name.
func (m Matcher) Match(term, name string) ([]Span, bool) {
	if strings.TrimSpace(term) == "" {
		return nil, false
	}
	if spans, ok := matchAcronym(m.acronym(term), name); ok {
		return spans, true
	}
	return matchSubstring(term, name)
}

func (m Matcher) acronym(term string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range strings.ToUpper(term) {
		b.WriteString("(")
		b.WriteString(regexp.QuoteMeta(string(r)))
		b.WriteString(")")
		b.WriteString(m.filler)
	}
	b.WriteString(".*$")
	return regexp.MustCompile(b.String())
}

func matchAcronym(re *regexp.Regexp, name string) ([]Span, bool) {
	loc := re.FindStringSubmatchIndex(name)
	if loc == nil {
		return nil, false
	}
	var spans []Span
	pos := 0
	for g := 2; g+1 < len(loc); g += 2 {
		start, end := loc[g], loc[g+1]
		if start > pos {
			spans = append(spans, Span{Text: name[pos:start]})
		}
		spans = append(spans, Span{Text: name[start:end], Highlight: true})
		pos = end
	}
	if pos < len(name) {
		spans = append(spans, Span{Text: name[pos:]})
	}
	return spans, true
}

func matchSubstring(term, name string) ([]Span, bool) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
	loc := re.FindStringIndex(name)
	if loc == nil {
		return nil, false
	}
	var spans []Span
	if loc[0] > 0 {
		spans = append(spans, Span{Text: name[:loc[0]]})
	}
	spans = append(spans, Span{Text: name[loc[0]:loc[1]], Highlight: true})
	if loc[1] < len(name) {
		spans = append(spans, Span{Text: name[loc[1]:]})
	}
	return spans, true
}

// FilterOptions keeps the options starting with term, ignoring case, sorted
// alphabetically without regard to case. An empty term keeps every option.
func FilterOptions(options []string, term string) []string {
	out := make([]string, 0, len(options))
	lt := strings.ToLower(term)
	for _, o := range options {
		if strings.HasPrefix(strings.ToLower(o), lt) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
