package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/nameutil"
	"github.com/VoxDroid/hotcmd/internal/utils"
)

// editFunc opens a file for interactive editing. Tests replace it.
var editFunc = utils.OpenEditor

// editable is the part of a command a user may change. The kind is fixed.
type editable struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Enabled     bool           `yaml:"enabled"`
	Config      command.Config `yaml:"config"`
}

var editCmd = &cobra.Command{
	Use:   "edit <name|id>",
	Short: "Edit a command",
	Long: "Edit a command in $EDITOR as YAML, or non-interactively with flags:\n" +
		"  hotcmd edit Docs --set url=https://go.dev --description 'Go docs'",
	Args: cobra.ExactArgs(1),
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
		if c.Internal() {
			return fmt.Errorf("'%s' is built in and cannot be edited", c.Descriptor().Name())
		}
		d := c.Descriptor()
		e := editable{Name: d.Name(), Description: d.Description(), Enabled: d.Enabled(), Config: c.Config()}

		if flagsChanged(cmd, "name", "description", "enable", "disable", "set", "unset") {
			if err := applyEditFlags(cmd, &e); err != nil {
				return err
			}
		} else if err := editInEditor(&e); err != nil {
			return err
		}
		if err := replace(cmd, a, c, e); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated '%s'\n", e.Name)
		return nil
	},
}

func flagsChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

func applyEditFlags(cmd *cobra.Command, e *editable) error {
	if cmd.Flags().Changed("name") {
		e.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("description") {
		e.Description, _ = cmd.Flags().GetString("description")
	}
	enable, _ := cmd.Flags().GetBool("enable")
	disable, _ := cmd.Flags().GetBool("disable")
	if enable && disable {
		return errors.New("--enable and --disable are mutually exclusive")
	}
	if enable || disable {
		e.Enabled = enable
	}
	sets, _ := cmd.Flags().GetStringArray("set")
	cfg, err := parseSets(sets)
	if err != nil {
		return err
	}
	if e.Config == nil {
		e.Config = command.Config{}
	}
	for k, v := range cfg {
		e.Config[k] = v
	}
	unset, _ := cmd.Flags().GetStringArray("unset")
	for _, k := range unset {
		delete(e.Config, k)
	}
	return nil
}

// editInEditor round-trips e through a temporary YAML file.
func editInEditor(e *editable) error {
	tmpf, err := os.CreateTemp("", "hotcmd-edit-*.yaml")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmpf.Name()) }()
	enc := yaml.NewEncoder(tmpf)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		_ = tmpf.Close()
		return err
	}
	_ = enc.Close()
	if err := tmpf.Close(); err != nil {
		return err
	}

	if err := editFunc(tmpf.Name()); err != nil {
		return err
	}

	b, err := os.ReadFile(tmpf.Name())
	if err != nil {
		return err
	}
	var out editable
	if err := yaml.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("parse edited file: %w", err)
	}
	*e = out
	return nil
}

// replace rebuilds old with e under the same ID and persists it. The old
// command is restored in the registry when validation or saving fails.
func replace(cmd *cobra.Command, a *app, old command.Command, e editable) error {
	name, _ := nameutil.SanitizeName(e.Name)
	if err := nameutil.ValidateName(name); err != nil {
		return err
	}
	if other, ok := a.reg.Find(name); ok && other.Descriptor().ID() != old.Descriptor().ID() {
		return fmt.Errorf("a command named %q already exists", name)
	}
	d := command.NewDescriptor(name, e.Description)
	d.SetID(old.Descriptor().ID())
	d.SetEnabled(e.Enabled)
	next, err := command.New(old.Kind(), d, e.Config, a.reg.Deps())
	if err != nil {
		return err
	}
	a.reg.Register(next)
	if err := a.reg.Save(ctxOf(cmd), d.ID()); err != nil {
		a.reg.Register(old)
		return err
	}
	e.Name = name
	return nil
}

func init() {
	editCmd.Flags().String("name", "", "Rename the command")
	editCmd.Flags().StringP("description", "d", "", "Replace the description")
	editCmd.Flags().Bool("enable", false, "Enable the command")
	editCmd.Flags().Bool("disable", false, "Disable the command")
	editCmd.Flags().StringArray("set", nil, "Set a kind field as key=value (repeatable)")
	editCmd.Flags().StringArray("unset", nil, "Clear a kind field (repeatable)")
	rootCmd.AddCommand(editCmd)
}
