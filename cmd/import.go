package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a database file or YAML commands",
}

var importDbCmd = &cobra.Command{
	Use:   "db <file>",
	Short: "Replace the active database with a copy of file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		if err := importer.ImportDatabase(args[0], overwrite); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported database from %s\n", args[0])
		return nil
	},
}

var importYamlCmd = &cobra.Command{
	Use:   "yaml <file>",
	Short: "Create commands from a YAML export; - reads stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			in = f
		}
		res, err := importer.ImportYAML(ctxOf(cmd), a.reg, in)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range res.Created {
			_, _ = fmt.Fprintf(out, "created '%s'\n", name)
		}
		for _, from := range sortedKeys(res.Renamed) {
			_, _ = fmt.Fprintf(out, "renamed '%s' to '%s'\n", from, res.Renamed[from])
		}
		for _, name := range sortedKeys(res.Skipped) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped '%s': %v\n", name, res.Skipped[name])
		}
		_, _ = fmt.Fprintf(out, "imported %d commands\n", len(res.Created))
		return nil
	},
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	importDbCmd.Flags().Bool("overwrite", false, "Overwrite the active database file if it exists")
	importCmd.AddCommand(importDbCmd, importYamlCmd)
	rootCmd.AddCommand(importCmd)
}
