package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/tonhe/fireline/internal/config"
	"github.com/tonhe/fireline/internal/history"
)

func historyCmd(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	controller := fs.String("controller", "", "Only runs for this controller")
	limit := fs.Int("limit", 20, "Newest N runs (0 for all)")
	asJSON := fs.Bool("json", false, "Print runs as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fireline history [--controller NAME] [--limit N] [--json]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	log := newLogger(cfg).With(zap.String("controller", *controller))
	defer log.Sync()

	ctx := context.Background()
	store, err := openHistory(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		fatalf("%v", err)
	}
	defer store.Close()

	runs, err := store.List(ctx, *controller, *limit)
	if err != nil {
		log.Error("list history failed", zap.Int("limit", *limit), zap.Error(err))
		_ = log.Sync()
		fatalf("%v", err)
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(runs); err != nil {
			fatalf("%v", err)
		}
		return
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	printRuns(os.Stdout, runs)
}

func printRuns(w io.Writer, runs []history.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tCONTROLLER\tRESULT\tERRORS\tWARNINGS\tFINGERPRINT")
	for _, r := range runs {
		fp := r.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Time.Local().Format("2006-01-02 15:04:05"), r.Controller, r.Label, r.Errors, r.Warnings, fp)
	}
	tw.Flush()
}

// openHistory opens the configured history database, logging failures on
// log, which callers have already tagged with the controller.
func openHistory(ctx context.Context, cfg *config.Config, log *zap.Logger) (*history.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		log.Error("resolve history path failed", zap.Error(err))
		return nil, err
	}
	store, err := history.Open(ctx, path)
	if err != nil {
		log.Error("open history failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return store, nil
}
