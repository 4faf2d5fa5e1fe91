package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/nameutil"
)

var addCmd = &cobra.Command{
	Use:   "add <kind> <name>",
	Short: "Create a command",
	Long: "Create a command of the given kind. Settings are passed with --set key=value.\n" +
		"Examples:\n" +
		"  hotcmd add url Docs --set url='https://pkg.go.dev/{pkg:fmt}'\n" +
		"  hotcmd add shell 'Git Status' --set command='git status' --set workdir=~/src\n" +
		"  hotcmd add executable Editor --set path=/usr/bin/code --set args='{file}'",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := command.Kind(args[0])
		if _, ok := command.Lookup(kind); !ok || kind == command.KindInternal {
			return fmt.Errorf("unknown kind %q (choose from %s)", args[0], strings.Join(kindNames(), ", "))
		}
		name, changed := nameutil.SanitizeName(args[1])
		if err := nameutil.ValidateName(name); err != nil {
			return err
		}
		sets, _ := cmd.Flags().GetStringArray("set")
		cfg, err := parseSets(sets)
		if err != nil {
			return err
		}
		desc, _ := cmd.Flags().GetString("description")
		disabled, _ := cmd.Flags().GetBool("disabled")

		a, err := openApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if _, taken := a.reg.Find(name); taken {
			return fmt.Errorf("a command named %q already exists", name)
		}
		d := command.NewDescriptor(name, desc)
		d.SetEnabled(!disabled)
		c, err := command.New(kind, d, cfg, a.reg.Deps())
		if err != nil {
			return err
		}
		if err := a.reg.Create(ctxOf(cmd), c); err != nil {
			return err
		}
		if changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note: name sanitized to %q\n", name)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s '%s' (%s)\n", kind, name, d.ID())
		return nil
	},
}

// parseSets turns repeated key=value flags into a Config.
func parseSets(sets []string) (command.Config, error) {
	cfg := command.Config{}
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}
		cfg[strings.TrimSpace(k)] = v
	}
	return cfg, nil
}

func kindNames() []string {
	var out []string
	for _, k := range command.Kinds() {
		if k.Kind != command.KindInternal {
			out = append(out, string(k.Kind))
		}
	}
	return out
}

func init() {
	addCmd.Flags().StringArray("set", nil, "Set a kind field as key=value (repeatable)")
	addCmd.Flags().StringP("description", "d", "", "Description shown in the command bar")
	addCmd.Flags().Bool("disabled", false, "Create the command disabled")
	rootCmd.AddCommand(addCmd)
}
