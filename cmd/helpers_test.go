package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/executor"
)

type launch struct {
	op     string
	target string
	args   []string
}

// fakeLauncher implements executor.Launcher for tests.
type fakeLauncher struct {
	calls []launch
}

func (f *fakeLauncher) RunShell(_ context.Context, command, _ string, stdout io.Writer, _ io.Writer) error {
	f.calls = append(f.calls, launch{op: "shell", target: command})
	_, _ = io.WriteString(stdout, "cmd output\n")
	return nil
}

func (f *fakeLauncher) Start(_ context.Context, path string, args []string, _ string) error {
	f.calls = append(f.calls, launch{op: "start", target: path, args: args})
	return nil
}

func (f *fakeLauncher) OpenURL(_ context.Context, url, _ string, args []string) error {
	f.calls = append(f.calls, launch{op: "url", target: url, args: args})
	return nil
}

// setupTempHome points hotcmd at a fresh data directory and a fake launcher.
func setupTempHome(t *testing.T) *fakeLauncher {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvDB, "")
	fake := &fakeLauncher{}
	orig := execFactory
	execFactory = func(_, _ bool) executor.Launcher { return fake }
	t.Cleanup(func() { execFactory = orig })
	return fake
}

// run executes the CLI with args and stdin, returning stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, "", args...)
	if err != nil {
		t.Fatalf("%v failed: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

// resetFlags restores every flag to its default; package-level commands
// otherwise keep values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
