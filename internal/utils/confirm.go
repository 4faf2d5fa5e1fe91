// Package utils holds terminal helpers shared by the CLI commands.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirm prompts the user with msg and expects y/n on stdin. Returns true for yes.
// For non-interactive environments (stdin not a terminal) it returns false.
func Confirm(msg string) bool {
	if !IsInteractive() {
		return false
	}
	return ConfirmReader(os.Stdout, os.Stdin, msg)
}

// ConfirmReader asks msg on w and reads the answer from r.
func ConfirmReader(w io.Writer, r io.Reader, msg string) bool {
	_, _ = fmt.Fprintf(w, "%s [y/N]: ", msg)
	line, _ := bufio.NewReader(r).ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
