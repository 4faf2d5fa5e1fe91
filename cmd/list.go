package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/search"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List commands",
	Long:  "List saved commands. Example:\n  hotcmd list\n  hotcmd list --all --kind url",
	RunE: func(cmd *cobra.Command, _ []string) error {
		all, _ := cmd.Flags().GetBool("all")
		kind, _ := cmd.Flags().GetString("kind")

		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, c := range a.reg.All(search.Filter{ExcludeInternal: !all, IncludeDisabled: all}) {
			if kind != "" && string(c.Kind()) != kind {
				continue
			}
			state := ""
			if !c.Descriptor().Enabled() {
				state = "disabled"
			}
			_, _ = fmt.Fprintf(tw, "- %s\t%s\t%s\t%s\n", c.Descriptor().Name(), c.Kind(), c.Descriptor().ID(), state)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().Bool("all", false, "Include disabled and built-in commands")
	listCmd.Flags().String("kind", "", "Only list commands of this kind")
	rootCmd.AddCommand(listCmd)
}
