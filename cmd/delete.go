package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/storage"
	"github.com/VoxDroid/hotcmd/internal/utils"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name|id>",
	Short: "Delete a command, or every saved command with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		yes, _ := cmd.Flags().GetBool("yes")
		if all == (len(args) == 1) {
			return errors.New("give exactly one of <name|id> or --all")
		}

		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		out := cmd.OutOrStdout()

		if all {
			if !yes && !utils.ConfirmReader(out, cmd.InOrStdin(), "Delete every saved command permanently?") {
				_, _ = fmt.Fprintln(out, "aborted")
				return nil
			}
			err := a.reg.DeleteAll(ctxOf(cmd))
			var be *storage.BatchError
			if errors.As(err, &be) {
				for _, it := range be.Items {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "could not delete %s: %v\n", it.ID, it.Failure)
				}
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "deleted all commands")
			return nil
		}

		c, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		name := c.Descriptor().Name()
		if !yes && !utils.ConfirmReader(out, cmd.InOrStdin(), fmt.Sprintf("Delete '%s' permanently?", name)) {
			_, _ = fmt.Fprintln(out, "aborted")
			return nil
		}
		if err := a.reg.Delete(ctxOf(cmd), c.Descriptor().ID()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "deleted '%s'\n", name)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("all", false, "Delete every saved command (built-ins are kept)")
	deleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(deleteCmd)
}
