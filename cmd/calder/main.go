// Package main is the entry point for the calder CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/calder-build/calder/cmd/calder/commands"
)

func main() {
	if err := run(); err != nil {
		// zerr prints a pretty error report with stack trace and metadata when using %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cli := commands.New()
	return cli.Execute(context.Background())
}
