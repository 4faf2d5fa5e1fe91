package cmd

import (
	"os"
	"strings"
	"testing"
)

func TestEditWithFlags(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "Docs", "--set", "url=https://x.org")
	mustRun(t, "edit", "Docs", "--name", "Go Docs", "--set", "url=https://go.dev/{page:doc}", "--disable")
	out := mustRun(t, "describe", "Go Docs")
	for _, want := range []string{"url: https://go.dev/{page:doc}", "Enabled: false"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q after edit: %q", want, out)
		}
	}
	if _, _, err := run(t, "", "edit", "Go Docs", "--set", "url=nope"); err == nil {
		t.Fatalf("expected validation error")
	}
	out = mustRun(t, "describe", "Go Docs")
	if !strings.Contains(out, "https://go.dev") {
		t.Fatalf("failed edit must keep the stored command: %q", out)
	}
}

func TestEditInEditor(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "shell", "Status", "--set", "command=git status")
	orig := editFunc
	defer func() { editFunc = orig }()
	editFunc = func(path string) error {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !strings.Contains(string(b), "command: git status") {
			t.Fatalf("unexpected editable document:\n%s", b)
		}
		edited := strings.Replace(string(b), "git status", "git status --short", 1)
		edited = strings.Replace(edited, "description: \"\"", "description: short status", 1)
		return os.WriteFile(path, []byte(edited), 0o644)
	}
	mustRun(t, "edit", "Status")
	out := mustRun(t, "describe", "Status")
	if !strings.Contains(out, "command: git status --short") || !strings.Contains(out, "Description: short status") {
		t.Fatalf("unexpected describe after editor: %q", out)
	}
}

func TestEditRefusesDuplicateName(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "A", "--set", "url=https://a.org")
	mustRun(t, "add", "url", "B", "--set", "url=https://b.org")
	if _, _, err := run(t, "", "edit", "B", "--name", "a"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
