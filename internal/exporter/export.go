// Package exporter writes command definitions out of hotcmd, either as a
// copy of the database or as a YAML document.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
)

// FormatVersion is written into every YAML document.
const FormatVersion = 1

// Document is the YAML layout shared with package importer.
type Document struct {
	Version  int              `yaml:"version"`
	Commands []command.Record `yaml:"commands"`
}

// ExportDatabase copies the active hotcmd database to dstPath.
func ExportDatabase(dstPath string) error {
	src, err := config.DBPath()
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source db: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create dst db: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// WriteYAML encodes cmds as a Document. Internal commands are skipped.
func WriteYAML(w io.Writer, cmds []command.Command) error {
	doc := Document{Version: FormatVersion}
	for _, c := range cmds {
		if c.Internal() {
			continue
		}
		rec, err := command.ToRecord(c)
		if err != nil {
			return err
		}
		doc.Commands = append(doc.Commands, rec)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// ExportYAML writes cmds to path.
func ExportYAML(path string, cmds []command.Command) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteYAML(f, cmds); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
