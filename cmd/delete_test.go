package cmd

import (
	"strings"
	"testing"
)

func TestDeleteCommand_PromptsAndDeletesWhenConfirmed(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "del-test", "--set", "url=https://x.org")
	out, _, err := run(t, "y\n", "delete", "del-test")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "deleted 'del-test'") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, _, err := run(t, "", "describe", "del-test"); err == nil {
		t.Fatalf("expected command to be deleted")
	}
}

func TestDeleteCommand_AbortsOnNo(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "del-abort", "--set", "url=https://x.org")
	out, _, err := run(t, "n\n", "delete", "del-abort")
	if err != nil || !strings.Contains(out, "aborted") {
		t.Fatalf("expected abort, got %v %q", err, out)
	}
	mustRun(t, "describe", "del-abort")
}

func TestDeleteCommand_SkipsPromptWithYesFlag(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "del-yes", "--set", "url=https://x.org")
	mustRun(t, "delete", "del-yes", "--yes")
	if _, _, err := run(t, "", "describe", "del-yes"); err == nil {
		t.Fatalf("expected command to be deleted")
	}
}

func TestDeleteAllKeepsBuiltins(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "One", "--set", "url=https://x.org")
	mustRun(t, "add", "url", "Two", "--set", "url=https://y.org")
	mustRun(t, "delete", "--all", "-y")
	out := mustRun(t, "list", "--all")
	if strings.Contains(out, "One") || strings.Contains(out, "Two") || !strings.Contains(out, "Reload") {
		t.Fatalf("unexpected list after delete --all: %q", out)
	}
}

func TestDeleteRefusesBuiltinsAndBadArgs(t *testing.T) {
	setupTempHome(t)
	if _, _, err := run(t, "", "delete", "Reload", "-y"); err == nil || !strings.Contains(err.Error(), "internal command") {
		t.Fatalf("expected internal command error, got %v", err)
	}
	if _, _, err := run(t, "", "delete"); err == nil {
		t.Fatalf("expected usage error without name or --all")
	}
}
