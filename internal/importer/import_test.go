package importer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/exporter"
	"github.com/VoxDroid/hotcmd/internal/registry"
	"github.com/VoxDroid/hotcmd/internal/search"
	"github.com/VoxDroid/hotcmd/internal/storage"
)

const doc = `version: 1
commands:
  - id: 00000000-0000-0000-0000-000000000001
    kind: url
    name: Github
    enabled: true
    config:
      url: https://github.com/{owner}
  - kind: shell
    name: "  List   Files "
    enabled: false
    config:
      command: ls -la
  - kind: url
    name: Broken
    config:
      url: not-a-url
`

func TestImportYAML(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	m := registry.New(store)
	existing, err := command.New(command.KindURL, command.NewDescriptor("Github", ""), command.Config{"url": "https://github.com"}, command.Deps{})
	require.NoError(t, err)
	require.NoError(t, m.Create(ctx, existing))

	res, err := ImportYAML(ctx, m, strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, []string{"Github-import-1", "List Files"}, res.Created)
	require.Equal(t, "Github-import-1", res.Renamed["Github"])
	require.Contains(t, res.Skipped, "Broken")
	require.Equal(t, 3, store.Len())

	lf, ok := m.Find("list files")
	require.True(t, ok)
	require.False(t, lf.Descriptor().Enabled())
	require.Equal(t, 1, len(m.Search("LF", search.Filter{IncludeDisabled: true})))
}

func TestExportThenImport(t *testing.T) {
	ctx := context.Background()
	src := registry.New(storage.NewMemStore())
	c, err := command.New(command.KindShell, command.NewDescriptor("Disk Usage", "df"), command.Config{"command": "df -h {path:/}"}, command.Deps{})
	require.NoError(t, err)
	require.NoError(t, src.Create(ctx, c))

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteYAML(&buf, src.All(search.Filter{IncludeDisabled: true})))

	dst := registry.New(storage.NewMemStore())
	res, err := ImportYAML(ctx, dst, &buf)
	require.NoError(t, err)
	require.Equal(t, []string{"Disk Usage"}, res.Created)
	got, ok := dst.Find("Disk Usage")
	require.True(t, ok)
	require.NotEqual(t, c.Descriptor().ID(), got.Descriptor().ID())
	require.Equal(t, "df -h {path:/}", got.Config()["command"])
}

func TestReadYAMLRejectsFutureVersion(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("version: 99\ncommands: []\n"))
	require.ErrorContains(t, err, "unsupported document version")

	recs, err := ReadYAML(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestImportDatabaseOverwrite(t *testing.T) {
	tmp := t.TempDir()
	dst := filepath.Join(tmp, "hotcmd.db")
	t.Setenv(config.EnvDB, dst)
	src := filepath.Join(tmp, "backup.db")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.Error(t, ImportDatabase(src, false))
	require.NoError(t, ImportDatabase(src, true))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "new", string(b))
}
