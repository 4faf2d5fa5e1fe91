package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VoxDroid/hotcmd/internal/config"
)

func TestExportYamlThenImportIntoFreshHome(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "Docs", "--set", "url=https://go.dev/{page:doc}", "-d", "Go docs")
	mustRun(t, "add", "shell", "Status", "--set", "command=git status")
	dst := filepath.Join(t.TempDir(), "cmds.yaml")
	out := mustRun(t, "export", "yaml", "--dst", dst)
	if !strings.Contains(out, "exported 2 commands") {
		t.Fatalf("unexpected export output: %q", out)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if strings.Contains(string(b), "Reload") {
		t.Fatalf("built-ins must not be exported:\n%s", b)
	}

	t.Setenv(config.EnvHome, t.TempDir())
	out = mustRun(t, "import", "yaml", dst)
	if !strings.Contains(out, "imported 2 commands") {
		t.Fatalf("unexpected import output: %q", out)
	}
	if out := mustRun(t, "describe", "Docs"); !strings.Contains(out, "Description: Go docs") {
		t.Fatalf("unexpected describe after import: %q", out)
	}

	out = mustRun(t, "import", "yaml", dst)
	if !strings.Contains(out, "renamed 'Docs' to 'Docs-import-1'") {
		t.Fatalf("expected rename on conflict: %q", out)
	}
}

func TestExportYamlToStdout(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "Docs", "--set", "url=https://go.dev")
	out := mustRun(t, "export", "yaml", "Docs")
	if !strings.Contains(out, "version: 1") || !strings.Contains(out, "name: Docs") {
		t.Fatalf("unexpected yaml: %q", out)
	}
	if _, _, err := run(t, "", "export", "yaml", "Reload"); err == nil {
		t.Fatalf("expected built-in export to fail")
	}
}

func TestExportAndImportDatabase(t *testing.T) {
	setupTempHome(t)
	mustRun(t, "add", "url", "Docs", "--set", "url=https://go.dev")
	dst := filepath.Join(t.TempDir(), "backup.db")
	mustRun(t, "export", "db", "--dst", dst)

	t.Setenv(config.EnvHome, t.TempDir())
	mustRun(t, "import", "db", dst)
	if out := mustRun(t, "describe", "Docs"); !strings.Contains(out, "https://go.dev") {
		t.Fatalf("expected imported database: %q", out)
	}
	if _, _, err := run(t, "", "import", "db", dst); err == nil {
		t.Fatalf("expected overwrite protection")
	}
	mustRun(t, "import", "db", dst, "--overwrite")
}

func TestVersionCommand(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "hotcmd ") {
		t.Fatalf("unexpected version output: %q", out)
	}
}
