package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gemstar/internal/cli"
	gserrors "github.com/matzehuels/gemstar/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, gserrors.UserMessage(err))
		}
		os.Exit(code)
	}
}

const (
	exitFailure     = 1   // fatal run errors, such as unreadable snapshots
	exitUsage       = 2   // invalid configuration or input
	exitInterrupted = 130 // Standard shell convention for SIGINT
)

// exitCode maps a command error to the process exit status. Per-gem
// failures never reach here; they are part of a successful run.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case gserrors.IsFatal(err):
		return exitFailure
	}
	switch gserrors.GetCode(err) {
	case gserrors.ErrCodeInvalidConfig, gserrors.ErrCodeInvalidInput:
		return exitUsage
	}
	return exitFailure
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
