package step

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`\{(.*?)\}`)

// TokenBit is a parsed template token: {name[:default][:[opt1,opt2]]}.
type TokenBit struct {
	Name    string
	Default *string
	Options []string
}

// ParseTokens returns the tokens of template in order of appearance. The
// default and the bracketed option list may follow the name in either order.
func ParseTokens(template string) []TokenBit {
	var out []TokenBit
	for _, m := range tokenRe.FindAllStringSubmatch(template, -1) {
		out = append(out, parseToken(m[1]))
	}
	return out
}

func parseToken(body string) TokenBit {
	parts := strings.Split(body, ":")
	tb := TokenBit{Name: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		if strings.HasPrefix(p, "[") {
			tb.Options = parseOptions(p)
			continue
		}
		d := p
		tb.Default = &d
	}
	return tb
}

func parseOptions(p string) []string {
	p = strings.TrimPrefix(p, "[")
	p = strings.TrimSuffix(p, "]")
	var opts []string
	for _, o := range strings.Split(p, ",") {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

// FromTemplate builds the step chain for template, or nil when it has no tokens.
func FromTemplate(template string) *Chain {
	tokens := ParseTokens(template)
	if len(tokens) == 0 {
		return nil
	}
	return Build(tokens)
}

// Expand replaces every token in template with values[name]. Tokens without a
// value fall back to their default; if neither exists an error lists the
// missing names.
func Expand(template string, values map[string]string) (string, error) {
	missing := map[string]bool{}
	result := tokenRe.ReplaceAllStringFunc(template, func(match string) string {
		tb := parseToken(match[1 : len(match)-1])
		if v, ok := values[tb.Name]; ok {
			return v
		}
		if tb.Default != nil {
			return *tb.Default
		}
		missing[tb.Name] = true
		return match
	})
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return result, fmt.Errorf("missing parameters: %s", strings.Join(keys, ", "))
	}
	return result, nil
}
