package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/exporter"
	"github.com/VoxDroid/hotcmd/internal/search"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the database or commands to portable files",
}

var exportDbCmd = &cobra.Command{
	Use:   "db",
	Short: "Copy the whole database file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dst, _ := cmd.Flags().GetString("dst")
		if dst == "" {
			dst = datedPath(".", "hotcmd", ".db")
		}
		// open once so migrations have run before the copy
		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		a.Close()
		if err := exporter.ExportDatabase(dst); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported database to %s\n", dst)
		return nil
	},
}

var exportYamlCmd = &cobra.Command{
	Use:   "yaml [names...]",
	Short: "Write commands as YAML (all commands when no names are given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		dst, _ := cmd.Flags().GetString("dst")
		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		var cmds []command.Command
		if len(args) == 0 {
			cmds = a.reg.All(search.Filter{ExcludeInternal: true, IncludeDisabled: true})
		}
		for _, ref := range args {
			c, err := a.lookup(ref)
			if err != nil {
				return err
			}
			if c.Internal() {
				return fmt.Errorf("'%s' is built in and cannot be exported", c.Descriptor().Name())
			}
			cmds = append(cmds, c)
		}
		if dst == "" || dst == "-" {
			return exporter.WriteYAML(cmd.OutOrStdout(), cmds)
		}
		if err := exporter.ExportYAML(dst, cmds); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d commands to %s\n", len(cmds), dst)
		return nil
	},
}

// datedPath returns dir/prefix-YYYY-MM-DD.ext, adding -N until the name is free.
func datedPath(dir, prefix, ext string) string {
	date := time.Now().UTC().Format("2006-01-02")
	dst := filepath.Join(dir, fmt.Sprintf("%s-%s%s", prefix, date, ext))
	for si := 1; ; si++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			return dst
		}
		dst = filepath.Join(dir, fmt.Sprintf("%s-%s-%d%s", prefix, date, si, ext))
	}
}

func init() {
	exportDbCmd.Flags().String("dst", "", "Destination file (default hotcmd-<date>.db in the current directory)")
	exportYamlCmd.Flags().String("dst", "", "Destination file, or - for stdout (default)")
	exportCmd.AddCommand(exportDbCmd, exportYamlCmd)
	rootCmd.AddCommand(exportCmd)
}
