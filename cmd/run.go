package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/controller"
	"github.com/VoxDroid/hotcmd/internal/utils"
)

var runCmd = &cobra.Command{
	Use:   "run <name> [values...]",
	Short: "Run a command, prompting for its parameters",
	Long: "Run a command by name, ID or unique match. Parameters are taken from the\n" +
		"remaining arguments in order; missing ones are prompted for.\n" +
		"An empty answer keeps an optional parameter's default.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dry, _ := cmd.Flags().GetBool("dry-run")
		verbose, _ := cmd.Flags().GetBool("verbose")
		confirmFlag, _ := cmd.Flags().GetBool("confirm")
		defaults, _ := cmd.Flags().GetBool("defaults")

		a, err := openApp(cmd, appOptions{dryRun: dry, verbose: verbose})
		if err != nil {
			return err
		}
		defer a.Close()

		target, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		if !target.Descriptor().Enabled() {
			return fmt.Errorf("'%s' is disabled", target.Descriptor().Name())
		}
		if confirmFlag && !utils.ConfirmReader(cmd.OutOrStdout(), cmd.InOrStdin(), fmt.Sprintf("Run '%s' now?", target.Descriptor().Name())) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
		if !defaults {
			defaults = a.settings.Get().Controller.ExecuteDefaults
		}
		return walk(cmd, a, target, args[1:], defaults)
	},
}

// walk drives target through a controller, feeding it values and then
// prompted answers until it fires.
func walk(cmd *cobra.Command, a *app, target command.Command, values []string, executeDefaults bool) error {
	ctx := ctxOf(cmd)
	var runErr error
	fired := false
	c := controller.New(a.reg,
		controller.WithLogger(a.log),
		controller.OnError(func(_ command.Command, err error) { runErr = err }),
		controller.OnFire(func(command.Command) { fired = true }),
	)
	prompter := utils.NewPrompter(cmd.OutOrStdout(), cmd.InOrStdin())
	defer c.UndoAll()

	// Positional values are submitted one per step; the defaults shortcut
	// only applies once they are used up.
	c.Lock(ctx, target.Descriptor().ID(), executeDefaults && len(values) == 0)
	for c.State() == controller.AwaitingStep {
		cur, _ := c.CurrentStep()
		fromArgs := len(values) > 0
		var v string
		if fromArgs {
			v, values = values[0], values[1:]
		} else {
			var err error
			v, err = prompter.Read(stepPrompt(cur.Name, cur.Default, cur.Required, cur.Options))
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("missing value for %s", cur.Name)
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", cur.Name, err)
			}
		}
		depth := len(c.Trail())
		c.SetTerm(v)
		if strings.TrimSpace(v) == "" {
			// an empty answer means "keep the default", not the first option
			c.SelectNone()
		}
		c.Confirm(ctx, executeDefaults && len(values) == 0)
		if c.State() == controller.AwaitingStep && len(c.Trail()) == depth {
			if fromArgs {
				return fmt.Errorf("invalid value %q for %s", v, cur.Name)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "invalid value for %s\n", cur.Name)
		}
	}
	if !fired {
		return nil
	}
	return runErr
}

func stepPrompt(name, def string, required bool, options []string) string {
	p := name
	if len(options) > 0 {
		p += " [" + strings.Join(options, "/") + "]"
	}
	if !required {
		p += fmt.Sprintf(" (%s)", def)
	}
	return p
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "Print what would run without running it")
	runCmd.Flags().Bool("confirm", false, "Ask for confirmation before running")
	runCmd.Flags().Bool("verbose", false, "Verbose output (prints dry-run messages)")
	runCmd.Flags().Bool("defaults", false, "Fire as soon as the next parameter has a default")
	rootCmd.AddCommand(runCmd)
}
