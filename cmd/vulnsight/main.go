// vulnsight scans a codebase with a remote model and reports the findings.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vulnsight/internal/errs"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command := os.Args[1]; command {
	case "scan":
		runScan(ctx, os.Args[2:])
	case "config":
		runConfig(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`vulnsight - AI-assisted security scanner

Usage:
  vulnsight <command> [options]

Commands:
  scan [directory]  Scan a codebase and report vulnerabilities
  config <action>   Manage stored credentials (setup, show, update, delete)

Use "vulnsight <command> --help" for more information about a command.`)
}

// fail renders a propagated error with its kind prefix and remediation hint,
// then exits non-zero. The underlying cause chain is only shown for
// unclassified errors.
func fail(err error) {
	kind := errs.KindOf(err)
	var tagged *errs.Error
	if errors.As(err, &tagged) {
		fmt.Fprintf(os.Stderr, "Error (%s): %s\n", kind, tagged.Msg)
		if tagged.Err != nil && kind == errs.KindUnknown {
			fmt.Fprintf(os.Stderr, "  cause: %v\n", tagged.Err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", kind, err)
	}
	if hint := errs.Hint(kind); hint != "" {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
	}
	os.Exit(1)
}
