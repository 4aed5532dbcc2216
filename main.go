package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tonhe/fireline/cmd"
	"github.com/tonhe/fireline/internal/config"
	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/engine"
	"github.com/tonhe/fireline/internal/history"
	"github.com/tonhe/fireline/internal/logging"
	"github.com/tonhe/fireline/internal/probe"
	"github.com/tonhe/fireline/tui"
	"github.com/tonhe/fireline/tui/styles"
)

type flags struct {
	snapshot   string
	controller string
	theme      string
	noHistory  bool
}

func main() {
	if len(os.Args) > 1 && cmd.IsSubcommand(os.Args[1]) {
		cmd.Execute(os.Args[1:])
		return
	}

	var f flags
	flag.StringVar(&f.snapshot, "snapshot", "", "Snapshot file or directory of snapshot files to watch")
	flag.StringVar(&f.controller, "controller", "", "Controller to show first")
	flag.StringVar(&f.theme, "theme", "", "Theme override")
	flag.BoolVar(&f.noHistory, "no-history", false, "Do not record runs to the history database")
	flag.Usage = cmd.PrintUsage
	flag.Parse()

	if err := run(f); err != nil {
		fatal(err)
	}
}

// run starts the watch engine and the TUI. Every resource it opens is
// released by its deferred cleanup before it returns, on success or error.
func run(f flags) error {
	if err := config.EnsureDirs(); err != nil {
		return err
	}
	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	if f.theme != "" {
		if _, ok := styles.Lookup(f.theme); !ok {
			return fmt.Errorf("unknown theme %q", f.theme)
		}
		cfg.Theme = f.theme
	}

	logPath, err := config.GetLogPath()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	ev, err := diag.NewEvaluator(cfg.DiagThresholds())
	if err != nil {
		return err
	}

	var recorder engine.Recorder
	if !f.noHistory {
		store, err := openHistory(cfg)
		if err != nil {
			log.Warn("history disabled", zap.Error(err))
		} else {
			defer store.Close()
			recorder = store
		}
	}

	paths, err := snapshotPaths(f.snapshot)
	if err != nil {
		return err
	}

	mgr := engine.NewManager()
	defer mgr.StopAll()
	active, err := startControllers(mgr, paths, engine.Options{
		Interval:   cfg.PollInterval,
		MaxHistory: cfg.MaxHistory,
		Evaluator:  ev,
		Recorder:   recorder,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	if f.controller != "" {
		active = f.controller
	}
	log.Info("watching controllers", zap.Int("count", len(paths)), zap.String("active", active))

	model := tui.NewAppModel(tui.Options{
		Config:     cfg,
		Manager:    mgr,
		Controller: active,
		ConfigPath: cfgPath,
		Logger:     log,
		Version:    cmd.Version,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// startControllers launches one poller per snapshot file and returns the
// first controller's name. If any poller fails to start, those already
// running are stopped before the error is returned.
func startControllers(mgr *engine.Manager, paths []string, base engine.Options) (string, error) {
	log := base.Logger
	if log == nil {
		log = logging.Nop()
	}
	var first string
	for _, p := range paths {
		opts := base
		opts.Name = probe.Name(p)
		if err := mgr.Start(probe.NewFileCollector(p), opts); err != nil {
			log.Error("start controller failed", zap.String("controller", opts.Name), zap.Error(err))
			mgr.StopAll()
			return "", err
		}
		if first == "" {
			first = opts.Name
		}
	}
	return first, nil
}

// snapshotPaths expands --snapshot into snapshot files. A directory yields
// every snapshot file inside it.
func snapshotPaths(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	paths, err := probe.ListSnapshots(path)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s snapshot files in %s", probe.Ext, path)
	}
	return paths, nil
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(context.Background(), path)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
