package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds user preferences.
type Settings struct {
	Log        LogSettings
	Search     SearchSettings
	UI         UISettings
	Controller ControllerSettings
	Watch      WatchSettings
}

// LogSettings configures the slog handler.
type LogSettings struct {
	Level  string
	Format string // text or json
	File   string // empty logs to stderr
}

// SearchSettings selects the matcher.
type SearchSettings struct {
	Strategy string // default or extended
}

// UISettings holds presentation preferences changed by Set Theme and Set Accent.
type UISettings struct {
	Theme  string
	Accent string
}

// ControllerSettings tunes the command bar.
type ControllerSettings struct {
	ExecuteDefaults bool `mapstructure:"execute_defaults"`
}

// WatchSettings toggles reloading when the database changes on disk.
type WatchSettings struct {
	Enabled bool
}

// Themes and Accents list the values accepted by the UI.
var (
	Themes  = []string{"dark", "light"}
	Accents = []string{"amber", "blue", "cyan", "green", "magenta", "red"}
)

func defaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("search.strategy", "default")
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.accent", "cyan")
	v.SetDefault("controller.execute_defaults", false)
	v.SetDefault("watch.enabled", false)
}

// Load reads config.toml from the data directory and env. Env var overrides
// use prefix HOTCMD_, e.g. HOTCMD_LOG_LEVEL=debug.
func Load() (Settings, error) {
	v := viper.New()
	defaults(v)
	v.SetConfigType("toml")

	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("HOTCMD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return s, nil
}

// Save writes s to config.toml, creating the data directory if needed.
func Save(s Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("log.level", s.Log.Level)
	v.Set("log.format", s.Log.Format)
	v.Set("log.file", s.Log.File)
	v.Set("search.strategy", s.Search.Strategy)
	v.Set("ui.theme", s.UI.Theme)
	v.Set("ui.accent", s.UI.Accent)
	v.Set("controller.execute_defaults", s.Controller.ExecuteDefaults)
	v.Set("watch.enabled", s.Watch.Enabled)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
