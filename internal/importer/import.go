// Package importer brings command definitions into hotcmd, either by
// replacing the database file or by creating commands from a YAML document.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/exporter"
	"github.com/VoxDroid/hotcmd/internal/nameutil"
	"github.com/VoxDroid/hotcmd/internal/registry"
)

// ImportDatabase copies srcPath into the default database location. If overwrite
// is false and the destination exists, an error is returned.
func ImportDatabase(srcPath string, overwrite bool) error {
	dst, err := config.DBPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil && !overwrite {
		return errors.New("destination database exists; use --overwrite to replace")
	}
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create dst: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// ReadYAML decodes a document written by exporter.WriteYAML.
func ReadYAML(r io.Reader) ([]command.Record, error) {
	var doc exporter.Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Version > exporter.FormatVersion {
		return nil, fmt.Errorf("unsupported document version %d", doc.Version)
	}
	return doc.Commands, nil
}

// Result summarises an import.
type Result struct {
	Created []string
	Renamed map[string]string
	Skipped map[string]error
}

// ImportYAML creates one command per record of r through m. Records get new
// IDs; names already in use get a "-import-N" suffix. A record that fails
// validation or persistence is reported in Skipped and the rest continue.
func ImportYAML(ctx context.Context, m *registry.Manager, r io.Reader) (Result, error) {
	recs, err := ReadYAML(r)
	if err != nil {
		return Result{}, err
	}
	res := Result{Renamed: map[string]string{}, Skipped: map[string]error{}}
	for _, rec := range recs {
		name, _ := nameutil.SanitizeName(rec.Name)
		if err := nameutil.ValidateName(name); err != nil {
			res.Skipped[rec.Name] = err
			continue
		}
		unique := ensureUniqueName(m, name)
		d := command.NewDescriptor(unique, rec.Description)
		d.SetEnabled(rec.Enabled)
		cmd, err := command.New(rec.Kind, d, rec.Config, m.Deps())
		if err != nil {
			res.Skipped[rec.Name] = err
			continue
		}
		if err := m.Create(ctx, cmd); err != nil {
			res.Skipped[rec.Name] = err
			continue
		}
		if unique != rec.Name {
			res.Renamed[rec.Name] = unique
		}
		res.Created = append(res.Created, unique)
	}
	return res, nil
}

func ensureUniqueName(m *registry.Manager, orig string) string {
	name := orig
	for si := 1; ; si++ {
		if _, taken := m.Find(name); !taken {
			return name
		}
		name = fmt.Sprintf("%s-import-%d", strings.TrimSpace(orig), si)
	}
}
