package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "fireline"

// File names under the config and data directories.
const (
	configFile  = "config.toml"
	historyFile = "history.db"
	logFile     = "fireline.log"
)

// baseDir describes where one kind of per-user directory lives.
type baseDir struct {
	env        string   // Unix override, e.g. XDG_CONFIG_HOME
	home       []string // Unix fallback relative to $HOME
	winEnv     string   // Windows location, e.g. APPDATA
	winProfile []string // Windows fallback relative to %USERPROFILE%
}

var (
	configBase = baseDir{"XDG_CONFIG_HOME", []string{".config"}, "APPDATA", []string{"AppData", "Roaming"}}
	dataBase   = baseDir{"XDG_DATA_HOME", []string{".local", "share"}, "LOCALAPPDATA", []string{"AppData", "Local"}}
)

func (b baseDir) resolve() (string, error) {
	if runtime.GOOS == "windows" {
		if v := os.Getenv(b.winEnv); v != "" {
			return filepath.Join(v, appName), nil
		}
		return filepath.Join(append([]string{os.Getenv("USERPROFILE")}, append(b.winProfile, appName)...)...), nil
	}
	if v := os.Getenv(b.env); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, append(b.home, appName)...)...), nil
}

// GetConfigDir returns the config directory.
// Unix: $XDG_CONFIG_HOME/fireline or ~/.config/fireline
// Windows: %APPDATA%\fireline
func GetConfigDir() (string, error) { return configBase.resolve() }

// GetDataDir returns the directory for the history database and log file.
// Unix: $XDG_DATA_HOME/fireline or ~/.local/share/fireline
// Windows: %LOCALAPPDATA%\fireline
func GetDataDir() (string, error) { return dataBase.resolve() }

func inDir(dir func() (string, error), name string) (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

// GetConfigPath returns the path to config.toml.
func GetConfigPath() (string, error) { return inDir(GetConfigDir, configFile) }

// GetHistoryPath returns the default run history database path.
func GetHistoryPath() (string, error) { return inDir(GetDataDir, historyFile) }

// GetLogPath returns the log file used while the TUI owns the terminal.
func GetLogPath() (string, error) { return inDir(GetDataDir, logFile) }

// EnsureDirs creates the config and data directories if they don't exist.
func EnsureDirs() error {
	for _, fn := range []func() (string, error){GetConfigDir, GetDataDir} {
		dir, err := fn()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return nil
}
