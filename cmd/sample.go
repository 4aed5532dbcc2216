package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/tonhe/fireline/internal/probe"
)

func sampleCmd(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	controller := fs.String("controller", "", "Controller name (defaults to the file name)")
	force := fs.Bool("force", false, "Overwrite an existing file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fireline sample [--controller NAME] [--force] FILE")
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

	path := fs.Arg(0)
	if err := writeSample(path, *controller, *force); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Wrote sample snapshot to %s.\n", path)
}

func writeSample(path, controller string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s exists (use --force to overwrite)", path)
		}
	}
	if controller == "" {
		controller = probe.Name(path)
	}
	return probe.SaveSnapshot(probe.Sample(controller), path)
}
