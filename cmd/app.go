package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/hotcmd/internal/builtin"
	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/config"
	"github.com/VoxDroid/hotcmd/internal/db"
	"github.com/VoxDroid/hotcmd/internal/executor"
	"github.com/VoxDroid/hotcmd/internal/logging"
	"github.com/VoxDroid/hotcmd/internal/registry"
	"github.com/VoxDroid/hotcmd/internal/search"
	"github.com/VoxDroid/hotcmd/internal/storage"
)

// execFactory builds the launcher used by commands. Tests replace it.
var execFactory = func(dry, verbose bool) executor.Launcher {
	return executor.New(dry, verbose)
}

// app is one CLI invocation's view of hotcmd: settings, logger, database
// and a loaded registry with the built-ins registered.
type app struct {
	settings *builtin.Settings
	log      *slog.Logger
	db       *sql.DB
	reg      *registry.Manager
	launcher executor.Launcher
	closers  []io.Closer
}

type appOptions struct {
	dryRun  bool
	verbose bool
	quit    func()
	edit    func(path string) error
	// output replaces the command's stdout and stderr for executed commands
	// and is where logs go when no log file is configured.
	output io.Writer
}

func openApp(cmd *cobra.Command, o appOptions) (*app, error) {
	s, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		s.Log.Level = lvl
	}
	if st, _ := cmd.Flags().GetString("strategy"); st != "" {
		s.Search.Strategy = st
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if o.output != nil {
		stdout, stderr = o.output, o.output
	}
	log, logCloser, err := logging.New(s.Log, stderr)
	if err != nil {
		return nil, err
	}
	a := &app{settings: builtin.NewSettings(s, nil), log: log, closers: []io.Closer{logCloser}}

	dbConn, err := db.InitDB()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.db = dbConn
	a.closers = append(a.closers, dbConn)

	a.launcher = execFactory(o.dryRun, o.verbose)
	if e, ok := a.launcher.(*executor.Executor); ok && e.Out == nil {
		e.Out = stdout
	}
	a.reg = registry.New(storage.NewSQLStore(dbConn),
		registry.WithStrategy(search.ByName(s.Search.Strategy)),
		registry.WithLogger(log),
		registry.WithDeps(command.Deps{
			Launcher: a.launcher,
			Stdout:   stdout,
			Stderr:   stderr,
		}),
	)
	builtin.Register(a.reg, builtin.Options{
		Registry: a.reg,
		Launcher: a.launcher,
		Settings: a.settings,
		Quit:     o.quit,
		Edit:     o.edit,
	})
	if err := a.reg.Load(ctxOf(cmd)); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the database and log file.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

// lookup finds a command by ID or exact name, then by a unique search match.
// When nothing fits, the error suggests the closest names.
func (a *app) lookup(ref string) (command.Command, error) {
	if c, ok := a.reg.Find(ref); ok {
		return c, nil
	}
	res := a.reg.Search(ref, search.Filter{IncludeDisabled: true})
	if len(res) == 1 {
		if c, ok := a.reg.Get(res[0].ID); ok {
			return c, nil
		}
	}
	msg := fmt.Sprintf("command not found: %s", ref)
	if s := suggest(ref, a.reg.All(search.Filter{IncludeDisabled: true})); len(s) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
	}
	return nil, errors.New(msg)
}

// suggest returns up to three names within edit distance of ref, closest first.
func suggest(ref string, cmds []command.Command) []string {
	type scored struct {
		name string
		d    int
	}
	limit := len(ref)/3 + 1
	if limit < 2 {
		limit = 2
	}
	var out []scored
	for _, c := range cmds {
		name := c.Descriptor().Name()
		d := levenshtein.ComputeDistance(strings.ToLower(ref), strings.ToLower(name))
		if d <= limit {
			out = append(out, scored{name, d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].d < out[j].d })
	names := make([]string, 0, 3)
	for i := 0; i < len(out) && i < 3; i++ {
		names = append(names, out[i].name)
	}
	return names
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
