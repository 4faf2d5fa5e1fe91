// Package config locates hotcmd's data directory and loads user settings.
package config

import (
	"os"
	"path/filepath"
)

// Environment overrides for the data directory and database file.
const (
	EnvHome = "HOTCMD_HOME"
	EnvDB   = "HOTCMD_DB"
)

// DataDir returns the directory used to store hotcmd data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Use a dot-directory in the user's home on all platforms
	return filepath.Join(home, ".hotcmd"), nil
}

// EnsureDataDir creates the data directory when missing and returns it.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	return d, nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	if p := os.Getenv(EnvDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "hotcmd.db"), nil
}

// SettingsPath returns the path of config.toml in the data directory.
func SettingsPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.toml"), nil
}
