package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <name|id>",
	Short: "Show version history for a command",
	Long: "Show version history for a command (versions, timestamps, operation).\n" +
		"Deleted commands can be looked up by ID.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.resolveID(args[0])
		if err != nil {
			return err
		}
		vers, err := a.reg.History(ctxOf(cmd), id)
		if err != nil {
			return err
		}
		if len(vers) == 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no history for %s\n", args[0])
			return nil
		}
		for _, v := range vers {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "v%d\t%s\t%s\t%s\n", v.Version, v.CreatedAt, v.Operation, v.Record.Name)
		}
		return nil
	},
}

// resolveID accepts a raw UUID even when no such command is loaded.
func (a *app) resolveID(ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	c, err := a.lookup(ref)
	if err != nil {
		return uuid.Nil, err
	}
	return c.Descriptor().ID(), nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
