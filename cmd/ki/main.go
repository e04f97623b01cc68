// Command ki is the reference CLI entry point: it opens the editing
// core's App, hands it to the terminal frontend in internal/tui, and
// exposes a grammar subcommand that reports that no grammar store is
// built in.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
