package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hotcmd",
	Short: "hotcmd is a keyboard-driven command launcher",
	Long: "hotcmd keeps a registry of named commands (programs, URLs, shell lines and aliases)\n" +
		"and runs them from a command bar. Type an acronym such as 'ST' to find 'Set Theme'.",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "hotcmd: run 'hotcmd tui' for the command bar or 'hotcmd --help' for more")
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level from config.toml")
	rootCmd.PersistentFlags().String("strategy", "", "Matcher to use: default or extended")
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
