package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback <name|id> --version <n>",
	Short: "Rollback a command to a previous version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vnum, _ := cmd.Flags().GetInt("version")
		if vnum <= 0 {
			return fmt.Errorf("--version must be a positive integer")
		}
		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.resolveID(args[0])
		if err != nil {
			return err
		}
		if err := a.reg.Rollback(ctxOf(cmd), id, vnum); err != nil {
			return err
		}
		name := args[0]
		if c, ok := a.reg.Get(id); ok {
			name = c.Descriptor().Name()
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s to v%d\n", name, vnum)
		return nil
	},
}

func init() {
	rollbackCmd.Flags().Int("version", 0, "Version number to rollback to")
	rootCmd.AddCommand(rollbackCmd)
}
