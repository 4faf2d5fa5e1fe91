// Package executor launches the processes behind commands: shell lines,
// executables and URLs.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Launcher is what commands use to act on the host. It allows tests to
// inject fakes instead of spawning real processes.
type Launcher interface {
	// RunShell runs command through the platform shell and waits for it.
	RunShell(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error
	// Start launches path with args and returns without waiting.
	Start(ctx context.Context, path string, args []string, cwd string) error
	// OpenURL opens url in browser, or in the platform default handler when
	// browser is empty.
	OpenURL(ctx context.Context, url string, browser string, args []string) error
}

// Executor runs processes in an OS-aware way.
type Executor struct {
	DryRun  bool
	Verbose bool
	Shell   string // optional override (e.g., "pwsh")
	// Out receives dry-run messages; nil discards them.
	Out io.Writer
}

// New returns an Executor that launches real processes.
func New(dry, verbose bool) *Executor {
	return &Executor{DryRun: dry, Verbose: verbose}
}

// sanitizeCommand normalizes common unicode characters that often get
// inserted by editors (e.g., smart quotes, NBSP, zero-width spaces) and
// converts them to their ASCII equivalents where sensible.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201C", "\"", // left double quote
		"\u201D", "\"", // right double quote
		"\u00A0", " ", // NO-BREAK SPACE
		"\u200B", "", // zero width space
		"\u200E", "", // left-to-right mark
		"\u200F", "", // right-to-left mark
	)
	rp := r.Replace(s)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, rp)
}

// RunShell runs the provided command string using an OS-appropriate shell
// invocation (e.g., `bash -c` on Unix, `cmd /C` on Windows). The command is
// sanitized and validated before it runs.
func (e *Executor) RunShell(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error {
	command, err := validateAndSanitize(command)
	if err != nil {
		return err
	}
	if e.dryRun("shell: %s", command) {
		return nil
	}

	shell, args := shellInvocation(command, e.Shell)
	if err := validateShellAndArgs(shell, args); err != nil {
		return err
	}

	bout, berr, err := runShellCommand(ctx, shell, args, cwd)
	writeOutputs(bout, berr, stdout, stderr)
	if err != nil {
		return checkExecutionError(err, bout, berr, shell, args)
	}
	return nil
}

// Start launches path detached from the caller. The child is reaped in the
// background so it does not linger as a zombie.
func (e *Executor) Start(_ context.Context, path string, args []string, cwd string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("invalid executable: path cannot be empty")
	}
	if e.dryRun("start: %s %s", path, shellquote.Join(args...)) {
		return nil
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	// not bound to ctx: launched programs outlive the launcher session
	cmd := exec.Command(resolved, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// OpenURL opens url with browser when given, else with the platform opener.
func (e *Executor) OpenURL(ctx context.Context, url string, browser string, args []string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("invalid url: url cannot be empty")
	}
	if browser != "" {
		return e.Start(ctx, browser, append([]string{url}, args...), "")
	}
	opener, oargs := urlOpener(url)
	return e.Start(ctx, opener, oargs, "")
}

// SplitArgs splits an argument string into tokens respecting single and
// double quotes.
func SplitArgs(s string) []string {
	if toks, err := shellquote.Split(s); err == nil {
		return toks
	}
	// Fall back to simple whitespace splitting if the splitter fails.
	return strings.Fields(s)
}

func urlOpener(url string) (string, []string) {
	switch runtime.GOOS {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

func (e *Executor) dryRun(format string, a ...any) bool {
	if !e.DryRun {
		return false
	}
	if e.Verbose && e.Out != nil {
		_, _ = fmt.Fprintf(e.Out, "dry-run: "+format+"\n", a...)
	}
	return true
}

// runShellCommand executes a command by running the given executable and
// arguments, returning captured stdout/stderr buffers along with any error.
func runShellCommand(ctx context.Context, shell string, args []string, cwd string) (*bytes.Buffer, *bytes.Buffer, error) {
	cmd := exec.CommandContext(ctx, shell, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr
	if err := cmd.Run(); err != nil {
		return &bout, &berr, err
	}
	return &bout, &berr, nil
}

func writeOutputs(bout, berr *bytes.Buffer, stdout io.Writer, stderr io.Writer) {
	if stdout != nil {
		_, _ = stdout.Write(bout.Bytes())
	}
	if stderr != nil {
		_, _ = stderr.Write(berr.Bytes())
	}
}

func checkExecutionError(err error, bout, berr *bytes.Buffer, shell string, args []string) error {
	// If the process exited with status 1 but produced stdout, treat
	// that as a non-fatal condition.
	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() == 1 && bout.Len() > 0 {
			return nil
		}
	}
	outStr := strings.TrimSpace(bout.String())
	errStr := strings.TrimSpace(berr.String())
	if outStr != "" || errStr != "" {
		return fmt.Errorf("command failed: %w (shell=%s args=%q stdout=%q stderr=%q)", err, shell, args, outStr, errStr)
	}
	return fmt.Errorf("command failed: %w (shell=%s args=%q)", err, shell, args)
}

func shellInvocation(command string, overrideShell string) (string, []string) {
	switch overrideShell {
	case "":
	case "pwsh":
		return "pwsh", []string{"-Command", command}
	case "powershell":
		if runtime.GOOS == "windows" {
			if p, err := exec.LookPath("powershell"); err == nil {
				return p, []string{"-Command", command}
			}
			return "powershell", []string{"-Command", command}
		}
		return "pwsh", []string{"-Command", command}
	default:
		return overrideShell, []string{"-c", command}
	}

	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "bash", []string{"-c", command}
}

func validateShellAndArgs(shell string, args []string) error {
	if _, err := exec.LookPath(shell); err != nil {
		return fmt.Errorf("shell not found in PATH: %s", shell)
	}
	for i, a := range args {
		if strings.IndexFunc(a, isBadControl) != -1 {
			return fmt.Errorf("invalid shell arg[%d]: contains control characters", i)
		}
	}
	return nil
}

func isBadControl(r rune) bool {
	return r == 0 || (r < 32 && r != '\t') || r == 0x7f
}

// Sanitize normalizes common unicode characters and removes embedded
// null and other invisible runes.
func Sanitize(s string) string {
	return sanitizeCommand(s)
}

func validateAndSanitize(command string) (string, error) {
	command = sanitizeCommand(command)
	if err := ValidateCommand(command); err != nil {
		return "", err
	}
	return command, nil
}

// ValidateCommand checks for remaining problematic characters that will
// cause command execution to fail (e.g., newlines and control characters).
func ValidateCommand(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("invalid command: command cannot be empty")
	}
	if strings.Contains(s, "\n") {
		return fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	if strings.IndexFunc(s, isBadControl) != -1 {
		return fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return nil
}
