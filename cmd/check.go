package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tonhe/fireline/internal/config"
	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/history"
	"github.com/tonhe/fireline/internal/logging"
	"github.com/tonhe/fireline/internal/probe"
	"github.com/tonhe/fireline/tui/styles"
)

// ExitNeedsAttention is the exit status of check when any subsystem failed.
const ExitNeedsAttention = 2

type checkOptions struct {
	Path       string
	Controller string
	JSON       bool
	Details    bool
	Record     bool
	Styled     bool
	Log        *zap.Logger
}

// checkResult is the JSON shape of a check run.
type checkResult struct {
	Controller  string         `json:"controller"`
	CollectedAt time.Time      `json:"collected_at"`
	Fingerprint string         `json:"fingerprint"`
	Summary     diag.Summary   `json:"summary"`
	Verdicts    []diag.Verdict `json:"verdicts"`
	RunID       int64          `json:"run_id,omitempty"`
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	details := fs.Bool("details", false, "Include every measurement under each verdict")
	record := fs.Bool("record", false, "Append the run to the history database")
	controller := fs.String("controller", "", "Override the controller name in the snapshot")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fireline check [--json] [--details] [--record] [--controller NAME] FILE")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: FILE argument is required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	log := newLogger(cfg)
	defer log.Sync()

	res, err := runCheck(context.Background(), os.Stdout, cfg, checkOptions{
		Path:       fs.Arg(0),
		Controller: *controller,
		JSON:       *asJSON,
		Details:    *details,
		Record:     *record,
		Styled:     !*asJSON && term.IsTerminal(int(os.Stdout.Fd())),
		Log:        log,
	})
	if err != nil {
		_ = log.Sync()
		fatalf("%v", err)
	}
	if res.Summary.Label == diag.LabelNeedsAttention {
		_ = log.Sync()
		os.Exit(ExitNeedsAttention)
	}
}

// runCheck loads, evaluates, optionally records, and prints one snapshot.
func runCheck(ctx context.Context, w io.Writer, cfg *config.Config, opts checkOptions) (checkResult, error) {
	set, err := probe.LoadSnapshot(opts.Path)
	if err != nil {
		return checkResult{}, err
	}
	if opts.Controller != "" {
		set.Controller = opts.Controller
	}

	ev, err := diag.NewEvaluator(cfg.DiagThresholds())
	if err != nil {
		return checkResult{}, err
	}
	verdicts, err := ev.EvaluateAll(set)
	if err != nil {
		return checkResult{}, err
	}
	sum, err := diag.Aggregate(verdicts)
	if err != nil {
		return checkResult{}, err
	}

	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	log = log.With(zap.String("controller", set.Controller))

	// A run without a fingerprint is still reported and recorded.
	run, err := history.NewRun(set, verdicts, sum)
	if err != nil {
		log.Warn("fingerprint snapshot failed", zap.Error(err))
	}
	res := checkResult{
		Controller:  set.Controller,
		CollectedAt: set.CollectedAt,
		Fingerprint: run.Fingerprint,
		Summary:     sum,
		Verdicts:    verdicts,
	}

	if opts.Record {
		store, err := openHistory(ctx, cfg, log)
		if err != nil {
			return res, err
		}
		defer store.Close()
		if res.RunID, err = store.Record(ctx, run); err != nil {
			log.Error("record history failed", zap.Error(err))
			return res, err
		}
		log.Debug("recorded run", zap.Int64("run_id", res.RunID), zap.String("label", string(sum.Label)))
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return res, enc.Encode(res)
	}
	newReportPrinter(w, opts.Styled).print(res, opts.Details)
	return res, nil
}

// reportPrinter writes a check result as plain or styled text.
type reportPrinter struct {
	w   io.Writer
	sty *styles.Styles
}

func newReportPrinter(w io.Writer, styled bool) reportPrinter {
	p := reportPrinter{w: w}
	if styled {
		p.sty = styles.NewStyles(styles.DefaultTheme)
	}
	return p
}

func (p reportPrinter) status(s diag.Status, text string) string {
	if p.sty == nil {
		return text
	}
	return p.sty.ForStatus(s).Render(text)
}

func (p reportPrinter) dim(text string) string {
	if p.sty == nil {
		return text
	}
	return p.sty.TableCellDim.Render(text)
}

func (p reportPrinter) print(res checkResult, details bool) {
	sum := res.Summary
	fmt.Fprintf(p.w, "Controller: %s\n", res.Controller)
	if !res.CollectedAt.IsZero() {
		fmt.Fprintf(p.w, "Collected:  %s\n", res.CollectedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(p.w, "Overall:    %s  (%d errors, %d warnings, %d passed)\n",
		p.status(sum.Status, strings.ToUpper(string(sum.Label))), sum.Errors, sum.Warnings, sum.Passed)
	fmt.Fprintf(p.w, "Top issues: %s\n\n", strings.Join(sum.TopIssues, "; "))

	for _, v := range res.Verdicts {
		icon := p.status(v.Status, styles.StatusIcon(v.Status))
		title := fmt.Sprintf("%-18s", v.Title())
		primary := p.status(v.Status, fmt.Sprintf("%-14s", v.SummaryPrimary))
		fmt.Fprintf(p.w, "  %s %s %s %s\n", icon, title, primary, p.dim(v.SummarySecondary))

		if details {
			for _, d := range v.Details {
				fmt.Fprintf(p.w, "      %s %s\n", p.dim(fmt.Sprintf("%-17s", d.Label+":")), d.Value)
			}
		}
		if v.Remediation != nil && len(v.Remediation.Actions) > 0 {
			labels := make([]string, len(v.Remediation.Actions))
			for i, a := range v.Remediation.Actions {
				labels[i] = a.Label
			}
			fmt.Fprintf(p.w, "      %s %s\n", p.dim(v.Remediation.Title+":"), strings.Join(labels, ", "))
		}
	}
	if p.sty != nil {
		fmt.Fprintln(p.w, lipgloss.NewStyle().Foreground(styles.DefaultTheme.Base04).
			Render("\nRun 'fireline rules ID' for the rule behind any verdict."))
	}
}
