package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Match commands the way the command bar does",
	Long: "Match commands by acronym first (ST finds Set Theme), then by substring.\n" +
		"Matched characters are shown in brackets.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.reg.Search(args[0], search.Filter{IncludeDisabled: all})
		if len(res) == 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no matches for %q\n", args[0])
			return nil
		}
		for _, r := range res {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", bracketed(r.Spans))
		}
		return nil
	},
}

func bracketed(spans []search.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Highlight {
			b.WriteString("[" + s.Text + "]")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func init() {
	searchCmd.Flags().Bool("all", false, "Include disabled commands")
	rootCmd.AddCommand(searchCmd)
}
