package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/cmd/tui/ui"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/watch"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive command bar",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dry, _ := cmd.Flags().GetBool("dry-run")
		out := ui.NewOutput(0)

		var bar *ui.Model
		a, err := openApp(cmd, appOptions{
			dryRun: dry,
			output: out,
			quit:   func() { bar.Quit() },
			edit:   func(path string) error { return bar.EditFile(path) },
		})
		if err != nil {
			return err
		}
		defer a.Close()

		bar = ui.New(a.reg, ui.Options{Settings: a.settings, Output: out, Logger: a.log, Events: a.reg})
		defer bar.Close()
		p := ui.NewProgram(bar)

		ctx, cancel := context.WithCancel(ctxOf(cmd))
		defer cancel()
		if a.settings.Get().Watch.Enabled {
			if err := watchFiles(ctx, a, p); err != nil {
				a.log.Warn("file watching disabled", "err", err)
			}
		}

		_, err = p.Run()
		return err
	},
}

// watchFiles reloads the registry when the database changes and the
// settings when config.toml changes, telling the bar either way.
func watchFiles(ctx context.Context, a *app, p *tea.Program) error {
	w, err := watch.New(0, a.log)
	if err != nil {
		return err
	}
	dbPath, err := config.DBPath()
	if err != nil {
		_ = w.Close()
		return err
	}
	settingsPath, err := config.SettingsPath()
	if err != nil {
		_ = w.Close()
		return err
	}
	if err := w.OnChange(dbPath, func() {
		p.Send(ui.ReloadedMsg{Err: a.reg.Reload(ctx)})
	}); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.OnChange(settingsPath, func() { p.Send(ui.SettingsChangedMsg{}) }); err != nil {
		_ = w.Close()
		return err
	}
	go w.Run(ctx)
	return nil
}

func init() {
	tuiCmd.Flags().Bool("dry-run", false, "Show what commands would do instead of running them")
	rootCmd.AddCommand(tuiCmd)
}
