// Package security screens shell lines and URLs before a command launches them.
package security

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrBlocked is returned (wrapped) for anything refused by the screens below.
var ErrBlocked = errors.New("blocked")

type rule struct {
	re   *regexp.Regexp
	what string
}

var dangerousPatterns = []rule{
	{regexp.MustCompile(`(?i)\brm\s+-rf\s+/?$`), "recursive delete of root"},
	{regexp.MustCompile(`(?i)\brm\s+-rf\s+/`), "recursive delete of an absolute path"},
	{regexp.MustCompile(`(?i)\bmkfs\b`), "filesystem format"},
	{regexp.MustCompile(`(?i)\bdd\s+if=`), "raw disk write"},
	{regexp.MustCompile(`:\(\)\s*\{`), "fork bomb"},
	{regexp.MustCompile(`(?i)\bapt\-get\s+remove\s+`), "package removal"},
	{regexp.MustCompile(`(?i)\byum\s+remove\s+`), "package removal"},
	{regexp.MustCompile(`(?i)\bwipefs\b`), "disk wipe"},
	{regexp.MustCompile(`(?i)\bformat\s+[a-z]:`), "drive format"},
}

// CheckAllowed returns nil if the shell line may run, or an error wrapping
// ErrBlocked that names the rule it tripped. Checking is conservative and
// not exhaustive.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return fmt.Errorf("%w: empty command", ErrBlocked)
	}
	for _, r := range dangerousPatterns {
		if r.re.MatchString(cmd) {
			return fmt.Errorf("%w: command looks like a %s", ErrBlocked, r.what)
		}
	}
	return nil
}

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"ftp":    true,
	"mailto": true,
}

// CheckURL accepts absolute URLs whose scheme is safe to hand to a browser.
func CheckURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlocked, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("%w: url %q has no scheme", ErrBlocked, raw)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: scheme %q is not allowed", ErrBlocked, u.Scheme)
	}
	return nil
}
