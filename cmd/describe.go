package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/command"
)

var describeCmd = &cobra.Command{
	Use:   "describe <name|id>",
	Short: "Show details for a command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		describe(cmd.OutOrStdout(), c)
		return nil
	},
}

func describe(w io.Writer, c command.Command) {
	d := c.Descriptor()
	_, _ = fmt.Fprintf(w, "Name: %s\n", d.Name())
	_, _ = fmt.Fprintf(w, "ID: %s\n", d.ID())
	_, _ = fmt.Fprintf(w, "Kind: %s\n", c.Kind())
	if d.Description() != "" {
		_, _ = fmt.Fprintf(w, "Description: %s\n", d.Description())
	}
	_, _ = fmt.Fprintf(w, "Enabled: %t\n", d.Enabled())
	if c.Internal() {
		_, _ = fmt.Fprintln(w, "Built-in: yes")
	}
	cfg := c.Config()
	if len(cfg) > 0 {
		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		_, _ = fmt.Fprintln(w, "Config:")
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", k, cfg[k])
		}
	}
	chain := c.Steps()
	if chain.Len() == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "Steps:")
	for i := chain.Head(); i >= 0; i = chain.Next(i) {
		s, _ := chain.At(i)
		line := fmt.Sprintf("  %s", s.Name)
		if s.Required {
			line += " (required)"
		} else {
			line += fmt.Sprintf(" (default %q)", s.Default)
		}
		if s.Closed() {
			line += fmt.Sprintf(" one of %v", s.Options)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
