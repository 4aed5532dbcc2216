package cmd

import (
	"fmt"
	"os"
)

// Version is the release version, overridden at build time with -ldflags.
var Version = "0.1.0"

// knownSubcommands is the set of CLI subcommands that bypass the TUI.
var knownSubcommands = map[string]bool{
	"check":   true,
	"rules":   true,
	"history": true,
	"sample":  true,
	"config":  true,
	"themes":  true,
	"version": true,
	"help":    true,
}

// IsSubcommand returns true if the argument is a known CLI subcommand.
func IsSubcommand(arg string) bool {
	return knownSubcommands[arg]
}

// Execute dispatches to the appropriate CLI subcommand handler.
func Execute(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "check":
		checkCmd(args[1:])
	case "rules":
		rulesCmd(args[1:])
	case "history":
		historyCmd(args[1:])
	case "sample":
		sampleCmd(args[1:])
	case "config":
		configCmd(args[1:])
	case "themes":
		themesCmd()
	case "version":
		fmt.Printf("fireline v%s\n", Version)
	case "help":
		PrintUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		PrintUsage()
		os.Exit(1)
	}
}

// PrintUsage writes the top-level help text to stdout.
func PrintUsage() {
	fmt.Println(`fireline - wildfire defense controller diagnostics

Usage:
  fireline --snapshot PATH          Watch a snapshot file or directory in the TUI
  fireline --controller NAME        Start on a specific controller
  fireline --theme NAME             Launch with theme override
  fireline check [flags] FILE       Evaluate one snapshot and print the report
  fireline rules [ID]               Print the diagnostic rulebook
  fireline history [flags]          List recorded diagnostics runs
  fireline sample [flags] FILE      Write a sample snapshot file
  fireline config <cmd>             Manage configuration
  fireline themes                   List available themes
  fireline version                  Show version
  fireline help                     Show this help

Check Flags:
  --json                 Print the report as JSON
  --details              Include every measurement under each verdict
  --record               Append the run to the history database
  --controller NAME      Override the controller name in the snapshot
  Exits 2 when the overall result needs attention.

History Flags:
  --controller NAME      Only runs for this controller
  --limit N              Newest N runs (default 20, 0 for all)
  --json                 Print runs as JSON

Config Commands:
  fireline config path             Show config file path
  fireline config show             Print the effective configuration
  fireline config theme NAME       Set default theme
  fireline config log-level LEVEL  Set log level (debug, info, warn, error)`)
}

// fatalf prints an error and exits with status 1.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
