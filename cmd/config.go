package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/tonhe/fireline/internal/config"
	"github.com/tonhe/fireline/internal/logging"
	"github.com/tonhe/fireline/tui/styles"
)

func configCmd(args []string) {
	usage := "Usage: fireline config <path|show|theme|log-level>"
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	switch args[0] {
	case "path":
		configPath()
	case "show":
		configShow()
	case "theme":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: fireline config theme NAME")
			os.Exit(1)
		}
		configSetTheme(args[1])
	case "log-level":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: fireline config log-level LEVEL")
			os.Exit(1)
		}
		configSetLogLevel(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
}

func configPath() {
	path, err := config.GetConfigPath()
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println(path)
}

func configShow() {
	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	cfg.PollIntervalStr = cfg.PollInterval.String()
	if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		fatalf("%v", err)
	}
}

func configSetTheme(name string) {
	if _, ok := styles.Lookup(name); !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", name)
		fmt.Fprintln(os.Stderr, "Run 'fireline themes' to see available themes.")
		os.Exit(1)
	}

	cfg := loadOrDefaultConfig()
	cfg.Theme = name
	saveConfig(cfg)

	fmt.Printf("Default theme set to %q.\n", name)
}

func configSetLogLevel(level string) {
	level = strings.ToLower(level)
	if !config.ValidLogLevel(level) {
		fatalf("unknown log level %q", level)
	}
	cfg := loadOrDefaultConfig()
	cfg.LogLevel = level
	saveConfig(cfg)

	fmt.Printf("Log level set to %q.\n", level)
}

func themesCmd() {
	for _, name := range styles.Slugs() {
		fmt.Println(name)
	}
}

// loadConfig reads the config file, reporting parse and validation errors.
func loadConfig() (*config.Config, error) {
	path, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	return config.LoadConfig(path)
}

// loadOrDefaultConfig loads the config from disk, falling back to defaults.
func loadOrDefaultConfig() *config.Config {
	cfg, err := loadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
		newLogger(cfg).Warn("config unreadable, using defaults", zap.Error(err))
		return cfg
	}
	return cfg
}

// saveConfig writes the config to disk, creating directories as needed.
func saveConfig(cfg *config.Config) {
	log := newLogger(cfg)
	defer log.Sync()

	if err := config.EnsureDirs(); err != nil {
		log.Error("create config directories failed", zap.Error(err))
		_ = log.Sync()
		fmt.Fprintf(os.Stderr, "Error creating config directories: %v\n", err)
		os.Exit(1)
	}

	path, err := config.GetConfigPath()
	if err != nil {
		_ = log.Sync()
		fatalf("%v", err)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		log.Error("save config failed", zap.String("path", path), zap.Error(err))
		_ = log.Sync()
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	log.Debug("saved config", zap.String("path", path), zap.String("theme", cfg.Theme), zap.String("log_level", cfg.LogLevel))
}

// newLogger builds the CLI's stderr logger at the configured level. A
// logger that cannot be built is replaced by a no-op one.
func newLogger(cfg *config.Config) *zap.Logger {
	log, err := logging.New(cfg.LogLevel, "")
	if err != nil {
		return logging.Nop()
	}
	return log
}
