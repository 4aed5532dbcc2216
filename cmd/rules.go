package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tonhe/fireline/internal/diag"
)

func rulesCmd(args []string) {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print entries as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fireline rules [--json] [ID]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	entries, err := selectRules(cfg.DiagThresholds(), fs.Args())
	if err != nil {
		fatalf("%v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			fatalf("%v", err)
		}
		return
	}
	for i, e := range entries {
		if i > 0 {
			fmt.Println()
		}
		printRule(os.Stdout, e)
	}
}

// selectRules returns the rulebook rendered for th, narrowed to the entry
// named by args[0] when given.
func selectRules(th diag.Thresholds, args []string) ([]diag.RuleEntry, error) {
	if len(args) == 0 {
		return diag.RulesFor(th), nil
	}
	id, err := diag.ParseSubsystem(args[0])
	if err != nil {
		return nil, err
	}
	e, err := diag.LookupFor(id, th)
	if err != nil {
		return nil, err
	}
	return []diag.RuleEntry{e}, nil
}

func printRule(w io.Writer, e diag.RuleEntry) {
	fmt.Fprintf(w, "%s (%s)\n", e.Title, e.ID)
	fmt.Fprintf(w, "  %s\n", e.Intent)
	section := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "  %s:\n", name)
		for _, it := range items {
			fmt.Fprintf(w, "    - %s\n", it)
		}
	}
	section("Green", e.Green)
	section("Yellow", e.Yellow)
	section("Red", e.Red)
	section("Recommended actions", e.RecommendedActions)
}
