// Package nameutil cleans and validates command names typed by users.
package nameutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength bounds a command name in runes.
const MaxNameLength = 255

// ValidateName checks whether name is acceptable for a command. It rejects
// blank names, invalid UTF-8, control characters and names longer than
// MaxNameLength. It does not mutate the input; call SanitizeName first to
// strip undesirable characters.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("invalid name: name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("invalid name: contains invalid encoding")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("invalid name: %d characters exceeds limit of %d", n, MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid name: contains control character U+%04X (%q)", r, r)
		}
	}
	return nil
}

// SanitizeName removes control and zero-width characters, collapses inner
// runs of whitespace and trims the ends. It reports whether anything changed.
func SanitizeName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	var b strings.Builder
	space := false
	for _, r := range name {
		switch {
		case r == '\u200B', r == '\u200C', r == '\u200D', r == '\uFEFF':
			continue
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	res := b.String()
	return res, res != name
}
